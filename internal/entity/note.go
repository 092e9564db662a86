package entity

import "time"

type Subject string

const (
	SubjectMatematik Subject = "matematik"
	SubjectFizik     Subject = "fizik"
	SubjectKimya     Subject = "kimya"
	SubjectBiyoloji  Subject = "biyoloji"
	SubjectTurkce    Subject = "turkce"
	SubjectTarih     Subject = "tarih"
	SubjectCografya  Subject = "cografya"
	SubjectFelsefe   Subject = "felsefe"
	SubjectIngilizce Subject = "ingilizce"
)

var Subjects = []string{
	string(SubjectMatematik),
	string(SubjectFizik),
	string(SubjectKimya),
	string(SubjectBiyoloji),
	string(SubjectTurkce),
	string(SubjectTarih),
	string(SubjectCografya),
	string(SubjectFelsefe),
	string(SubjectIngilizce),
}

type Grade string

const (
	Grade9        Grade = "9"
	Grade10       Grade = "10"
	Grade11       Grade = "11"
	Grade12       Grade = "12"
	GradeGraduate Grade = "mezun"
)

var Grades = []string{string(Grade9), string(Grade10), string(Grade11), string(Grade12), string(GradeGraduate)}

type Note struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Subject     Subject   `json:"subject"`
	Grade       Grade     `json:"grade"`
	Tags        []string  `json:"tags"`
	FileURL     string    `json:"fileUrl"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	AuthorID    string    `json:"author"`
	Downloads   int       `json:"downloads"`
	ViewCount   int       `json:"viewCount"`
	RatingTotal int       `json:"-"`
	RatingCount int       `json:"ratingCount"`
	Rating      float64   `json:"rating"`
	IsApproved  bool      `json:"isApproved"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AverageRating is the rating exposed to clients: total over count, or 0.
func (n *Note) AverageRating() float64 {
	if n.RatingCount == 0 {
		return 0
	}
	return float64(n.RatingTotal) / float64(n.RatingCount)
}

type NoteFilter struct {
	Subject  Subject
	Grade    Grade
	AuthorID string
	Approved *bool
	Query    string
	Limit    int
	Offset   int
}
