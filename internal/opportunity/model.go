package opportunity

// Opportunity is the record shape supplied by the browsing/search UI
// when a user saves something. It is not owned by this service; only
// the fields below are read.
type Opportunity struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	CompanyName string   `json:"companyName"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Salary      string   `json:"salary"`
	Deadline    string   `json:"deadline"`
	Tags        []string `json:"tags"`
	TechStack   []string `json:"techStack"`
	CompanyID   string   `json:"companyId"`
}
