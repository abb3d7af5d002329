package models

import "time"

// Course is the root of the catalog ownership chain. Category and level
// references are optional and survive deletion of the referenced row.
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Price        float64   `gorm:"type:decimal(8,2);not null" json:"price"`
	CategoryID   *uint     `json:"category_id"`
	LevelID      *uint     `json:"level_id"`
	InstructorID uint      `gorm:"not null;index" json:"instructor_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Category     *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Level        *Level    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"level,omitempty"`
	Instructor   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"instructor"`
}

// OwnedBy reports whether the given user authored the course.
func (c Course) OwnedBy(userID uint) bool {
	return c.InstructorID == userID
}

// Rating is a single enrolled student's verdict on a course. One rating
// per (user, course); the unique index is the final guard under races.
type Rating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ratings_user_course" json:"user_id"`
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_ratings_user_course" json:"course_id"`
	Rating    float64   `gorm:"type:decimal(3,1);not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	Course    Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
