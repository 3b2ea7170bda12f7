package repositoryImp

import (
	"gorm.io/gorm"

	"advisor/entities"
	"advisor/pkg/course/repository"
)

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CourseRepository { return &repo{db} }

func (r *repo) Create(c *entities.Course) error { return r.db.Create(c).Error }
func (r *repo) CreateAll(cs []entities.Course) error {
	if len(cs) == 0 {
		return nil
	}
	// gorm runs multi-row creates in a single transaction
	return r.db.Create(&cs).Error
}
func (r *repo) Save(c *entities.Course) error   { return r.db.Save(c).Error }
func (r *repo) Delete(id uint) error            { return r.db.Delete(&entities.Course{}, id).Error }
func (r *repo) ByID(id uint) (*entities.Course, error) {
	var c entities.Course
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
func (r *repo) All() ([]entities.Course, error) {
	var cs []entities.Course
	return cs, r.db.Order("course_id ASC").Find(&cs).Error
}
