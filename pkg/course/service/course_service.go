package service

import (
	"io"

	"advisor/entities"
)

type CourseService interface {
	Create(c *entities.Course) error
	Update(c *entities.Course) error
	Delete(id uint) error
	Get(id uint) (*entities.Course, error)
	List() ([]entities.Course, error)

	// ImportXLSX reads one course per spreadsheet row and returns how
	// many were created.
	ImportXLSX(r io.Reader) (int, error)
	ExportXLSX(w io.Writer) error

	// ImportFromURL fetches a page, extracts its main text and creates
	// a draft course from it.
	ImportFromURL(pageURL, title string) (*entities.Course, error)

	// RegenerateKB rewrites the knowledge-base document from the full
	// course catalog.
	RegenerateKB() error
}
