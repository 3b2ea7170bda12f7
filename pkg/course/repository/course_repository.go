package repository

import "advisor/entities"

type CourseRepository interface {
	Create(*entities.Course) error
	// CreateAll inserts the batch atomically: either every course is
	// persisted or none is.
	CreateAll([]entities.Course) error
	Save(*entities.Course) error
	Delete(id uint) error
	ByID(id uint) (*entities.Course, error)
	All() ([]entities.Course, error)
}
