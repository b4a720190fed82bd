package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const thumbWidth = 200

// GenerateDerivatives writes a thumbnail and a WebP copy next to the source
// image. Existing derivatives are overwritten.
func GenerateDerivatives(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("open image %s: %w", path, err)
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, base+"_thumb"+ext); err != nil {
		return fmt.Errorf("save thumbnail for %s: %w", path, err)
	}

	f, err := os.Create(base + ".webp")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := webp.Encode(f, img, &webp.Options{Quality: 80}); err != nil {
		return fmt.Errorf("encode webp for %s: %w", path, err)
	}
	return nil
}

func isSourceImage(name string) bool {
	if strings.Contains(name, "_thumb.") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// OptimizeMediaDir walks the media directory and generates derivatives for
// every source image. Returns the number of images processed.
func OptimizeMediaDir(dir string) (int, []string, error) {
	processed := 0
	var warnings []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isSourceImage(info.Name()) {
			return nil
		}
		if err := GenerateDerivatives(path); err != nil {
			warnings = append(warnings, err.Error())
			return nil
		}
		processed++
		return nil
	})
	return processed, warnings, err
}
