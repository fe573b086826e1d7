package social

import (
	"fmt"
	"strings"

	"github.com/d60-Lab/pingjob/internal/model"
)

const (
	DefaultBrand            = "PingJob"
	DefaultImageURLTemplate = "https://via.placeholder.com/1080x1080/4285F4/ffffff?text=%s%%20at%%20%s"

	// TwitterMaxLength is counted in runes.
	TwitterMaxLength = 280
	excerptLength    = 200
	ellipsis         = "..."
)

// Payload is the platform-specific content derived from one job.
type Payload struct {
	Platform Platform
	Text     string
	MediaURL string
}

// Formatter turns a job into per-platform text. All methods are pure.
type Formatter struct {
	brand         string
	imageTemplate string
}

// NewFormatter falls back to the defaults for empty values or a template
// without exactly two %s verbs.
func NewFormatter(brand, imageTemplate string) *Formatter {
	if strings.TrimSpace(brand) == "" {
		brand = DefaultBrand
	}
	if strings.Count(imageTemplate, "%s") != 2 {
		imageTemplate = DefaultImageURLTemplate
	}
	return &Formatter{brand: brand, imageTemplate: imageTemplate}
}

func (f *Formatter) Format(p Platform, job *model.JobPosting) (Payload, error) {
	switch p {
	case Facebook:
		return Payload{Platform: p, Text: f.FacebookMessage(job)}, nil
	case Twitter:
		return Payload{Platform: p, Text: f.TwitterText(job)}, nil
	case Instagram:
		return Payload{Platform: p, Text: f.InstagramCaption(job), MediaURL: f.ImageURL(job)}, nil
	}
	return Payload{}, fmt.Errorf("unsupported platform %q", p)
}

func (f *Formatter) FacebookMessage(job *model.JobPosting) string {
	salary := ""
	if job.Salary != "" {
		salary = "💰 Salary: " + job.Salary
	}
	return strings.Join([]string{
		"🚀 New Job Opportunity Alert!",
		"",
		"📋 Position: " + job.Title,
		"🏢 Company: " + job.Company,
		"📍 Location: " + job.Location,
		"💼 Type: " + job.EmploymentType,
		"📊 Level: " + job.ExperienceLevel,
		salary,
		"",
		Excerpt(job.Description, excerptLength),
		"",
		"Apply now on " + f.brand + "! 👆",
		"",
		"#JobAlert #Hiring #CareerOpportunity #" + CompanyTag(job.Company),
	}, "\n")
}

// TwitterText never exceeds TwitterMaxLength runes.
func (f *Formatter) TwitterText(job *model.JobPosting) string {
	text := strings.Join([]string{
		"🚀 " + job.Title + " at " + job.Company,
		"📍 " + job.Location,
		"💼 " + job.EmploymentType,
		"📊 " + job.ExperienceLevel,
		"",
		"Apply on " + f.brand + "! ",
		"",
		"#JobAlert #Hiring #" + CompanyTag(job.Company),
	}, "\n")

	runes := []rune(text)
	if len(runes) > TwitterMaxLength {
		return string(runes[:TwitterMaxLength-len(ellipsis)]) + ellipsis
	}
	return text
}

// InstagramCaption carries every field of the feed message plus the extra
// discovery hashtags.
func (f *Formatter) InstagramCaption(job *model.JobPosting) string {
	salary := ""
	if job.Salary != "" {
		salary = "💰 " + job.Salary
	}
	return strings.Join([]string{
		"🚀 New Job Alert! ",
		"",
		"We're excited to share this amazing opportunity:",
		"",
		"📋 " + job.Title,
		"🏢 " + job.Company,
		"📍 " + job.Location,
		"💼 " + job.EmploymentType,
		"📊 " + job.ExperienceLevel,
		salary,
		"",
		Excerpt(job.Description, excerptLength),
		"",
		"Ready to take the next step in your career? This could be the perfect fit for you! ",
		"",
		"Apply now through " + f.brand + " and connect with top employers! 💪",
		"",
		"#JobAlert #Hiring #CareerGrowth #" + CompanyTag(job.Company) +
			" #" + CompanyTag(f.brand) + " #JobSearch #Career #Opportunity",
	}, "\n")
}

// ImageURL addresses the external image service. The URL is opaque to us.
func (f *Formatter) ImageURL(job *model.JobPosting) string {
	return fmt.Sprintf(f.imageTemplate, EncodeURIComponent(job.Title), EncodeURIComponent(job.Company))
}

// CompanyTag strips all whitespace; a blank company yields "".
func CompanyTag(company string) string {
	return strings.Join(strings.Fields(company), "")
}

// Excerpt returns the first n runes of s followed by "..." when s is longer.
func Excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + ellipsis
}

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ).
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) || strings.IndexByte("-_.!~*'()", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
