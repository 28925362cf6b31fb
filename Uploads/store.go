package Uploads

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Store saves uploaded task/part images under random names and keeps a
// small thumbnail next to each original. Remove undoes a save when the
// surrounding request fails after the upload was already accepted.
type Store struct {
	Dir string
}

const thumbWidth = 320

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(filepath.Join(dir, "thumbs"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// SaveAll stores every file sent under the given multipart field and
// returns the stored file names. On any error the files written so far
// are removed before returning.
func (s *Store) SaveAll(c *fiber.Ctx, field string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		// No multipart body at all means no images, which is fine.
		return nil, nil
	}

	var refs []string
	for _, file := range form.File[field] {
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !AllowedImage(ext) {
			s.Remove(refs)
			return nil, fmt.Errorf("unsupported image type %q", ext)
		}

		name := uuid.New().String() + ext
		if err := c.SaveFile(file, filepath.Join(s.Dir, name)); err != nil {
			s.Remove(refs)
			return nil, fmt.Errorf("failed to save %s: %w", file.Filename, err)
		}
		refs = append(refs, name)

		if err := s.writeThumbnail(name); err != nil {
			// The original is already durable; a missing thumbnail is
			// not worth failing the request over.
			log.Printf("thumbnail for %s failed: %v", name, err)
		}
	}
	return refs, nil
}

// Remove deletes stored images and their thumbnails. Used on every
// failure path after images were accepted, so it tolerates files that
// were never written.
func (s *Store) Remove(refs []string) {
	for _, ref := range refs {
		if err := os.Remove(filepath.Join(s.Dir, ref)); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove upload %s: %v", ref, err)
		}
		if err := os.Remove(filepath.Join(s.Dir, "thumbs", ref)); err != nil && !os.IsNotExist(err) {
			log.Printf("failed to remove thumbnail %s: %v", ref, err)
		}
	}
}

// AllowedImage reports whether the extension is an accepted image type.
func AllowedImage(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func (s *Store) writeThumbnail(name string) error {
	img, err := imaging.Open(filepath.Join(s.Dir, name))
	if err != nil {
		return err
	}
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	return imaging.Save(thumb, filepath.Join(s.Dir, "thumbs", name))
}
