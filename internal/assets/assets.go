// Package assets discovers generated images in the per-slot placement folders
// and regenerates the image manifest from what is actually on disk.
//
// The manifest on disk is treated as derived data: the placement folders are
// the source of truth, and a sync rewrites slots to match them while
// preserving the required-slot list.
package assets

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/sitebuilder/internal/manifest"
	"git.home.luguber.info/inful/sitebuilder/internal/observability"
)

// ImagesDir is the placement-folder root, relative to the project.
const ImagesDir = "assets/images"

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".avif": true,
	".svg":  true,
}

// IsImageFile reports whether the file name carries a recognized image
// extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// SlotImages maps a slot name to the project-relative paths of its images,
// sorted for stable output.
type SlotImages map[string][]string

// Discover walks the placement folders and returns every image per slot.
// Slot names are the first-level directories under assets/images; files at
// the root of assets/images (like manifest.json) are not slot content.
func Discover(projectPath string) (SlotImages, error) {
	root := filepath.Join(projectPath, ImagesDir)
	found := make(SlotImages)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsImageFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 2 {
			return nil
		}
		slot := parts[0]
		projectRel := filepath.ToSlash(filepath.Join(ImagesDir, rel))
		found[slot] = append(found[slot], projectRel)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return found, nil
		}
		return nil, fmt.Errorf("walk placement folders: %w", err)
	}

	for slot := range found {
		sort.Strings(found[slot])
	}
	return found, nil
}

// SyncReport summarizes a manifest regeneration.
type SyncReport struct {
	Slots      int
	Images     int
	Bytes      int64
	EmptySlots []string
}

// Sync regenerates the image manifest's slots from the placement folders.
// The required-slot list from the existing manifest is preserved; when no
// manifest exists yet, every discovered slot becomes required.
func Sync(ctx context.Context, projectPath string) (*SyncReport, error) {
	ctx = observability.WithProject(ctx, projectPath)

	discovered, err := Discover(projectPath)
	if err != nil {
		return nil, err
	}

	required := sortedSlots(discovered)
	if existing, err := manifest.LoadImageManifest(projectPath); err == nil {
		required = existing.RequiredSlots
	}

	m := &manifest.ImageManifest{
		Slots:         make(map[string][]manifest.ImageEntry),
		RequiredSlots: required,
	}
	report := &SyncReport{}
	for _, slot := range required {
		m.Slots[slot] = []manifest.ImageEntry{}
	}
	for slot, files := range discovered {
		entries := make([]manifest.ImageEntry, 0, len(files))
		for _, f := range files {
			entries = append(entries, manifest.ImageEntry{File: f})
			if info, err := os.Stat(filepath.Join(projectPath, filepath.FromSlash(f))); err == nil {
				report.Bytes += info.Size()
			}
		}
		m.Slots[slot] = entries
		report.Images += len(files)
	}
	report.Slots = len(m.Slots)
	for _, slot := range required {
		if len(m.Slots[slot]) == 0 {
			report.EmptySlots = append(report.EmptySlots, slot)
		}
	}
	sort.Strings(report.EmptySlots)

	if err := manifest.WriteJSON(projectPath, manifest.ImageManifestPath, m); err != nil {
		return nil, fmt.Errorf("write image manifest: %w", err)
	}

	observability.InfoContext(ctx, "Image manifest synced")
	return report, nil
}

func sortedSlots(si SlotImages) []string {
	out := make([]string, 0, len(si))
	for slot := range si {
		out = append(out, slot)
	}
	sort.Strings(out)
	return out
}
