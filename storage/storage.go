package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persiste photos et PDF sur le disque local, servis ensuite en
// statique sous /uploads.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// SavePhoto écrit le fichier sous un nom unique et retourne ce nom.
func (s *Store) SavePhoto(originalName string, src io.Reader) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", 0, err
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return "", 0, err
	}
	return filename, size, nil
}

// SavePDF écrit le PDF généré et retourne son nom de fichier.
func (s *Store) SavePDF(reportID uint, data []byte) (string, error) {
	filename := fmt.Sprintf("report_%d_%d.pdf", reportID, time.Now().UnixMilli())
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// Path retourne le chemin absolu d'un fichier stocké.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filename)
}

// URL retourne le chemin public d'un fichier stocké.
func (s *Store) URL(filename string) string {
	return "/uploads/" + filename
}

// Dir retourne le répertoire de stockage (servi en statique).
func (s *Store) Dir() string {
	return s.dir
}
