package models

type ReportType string
type ReportStatus string

const (
	TypeCleanliness ReportType = "Cleanliness"
	TypeMaintenance ReportType = "Maintenance"

	StatusPending    ReportStatus = "Pending"
	StatusInProgress ReportStatus = "In Progress"
	StatusResolved   ReportStatus = "Resolved"
	StatusRejected   ReportStatus = "Rejected"
)

// Stored timestamp layouts. Lexicographic order of DateLayout is chronological.
const (
	DateLayout         = "2006-01-02 15:04:05"
	ResolvedDateLayout = "2006-01-02"
)

func (t ReportType) Valid() bool {
	switch t {
	case TypeCleanliness, TypeMaintenance:
		return true
	}
	return false
}

func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

type Report struct {
	ID           int64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StudentID    string       `gorm:"column:student_id;not null" json:"student_id"`
	Type         ReportType   `gorm:"column:type;not null" json:"type"`
	Location     string       `gorm:"column:location;not null" json:"location"`
	Description  *string      `gorm:"column:description" json:"description"`
	ImageURL     *string      `gorm:"column:image_url" json:"image_url"` // inline image encoding, not a URL
	Status       ReportStatus `gorm:"column:status;default:Pending" json:"status"`
	Date         string       `gorm:"column:date;not null" json:"date"`
	ResolvedDate *string      `gorm:"column:resolved_date" json:"resolved_date"`
}

func (Report) TableName() string {
	return "reports"
}

// ReportFilter selects reports for listing. StudentID wins over Domain.
type ReportFilter struct {
	StudentID string
	Domain    string
}
