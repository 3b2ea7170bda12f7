package entities

import "time"

// Course is one program record maintained by administrators. The
// knowledge-base document consumed by the retrieval core is generated
// from the full set of courses.
type Course struct {
	CourseID            uint   `gorm:"primaryKey" json:"course_id"`
	Name                string `json:"name"`
	Overview            string `json:"overview"`
	TargetAudience      string `json:"target_audience"`
	Duration            string `json:"duration"`
	Mode                string `json:"mode"`
	Fee                 string `json:"fee"`
	CommunityAccess     string `json:"community_access"`
	CertificateProvided bool   `json:"certificate_provided"`
	Outcomes            string `json:"outcomes"`
	InterestsAligned    string `json:"interests_aligned"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
