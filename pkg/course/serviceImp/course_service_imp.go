package serviceImp

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"advisor/entities"
	"advisor/pkg/course/repository"
	"advisor/pkg/course/service"
)

type Svc struct {
	r      repository.CourseRepository
	kbFile string
	// refresh is invoked after the knowledge-base file changes so the
	// retrieval index can pick it up. May be nil.
	refresh func()
}

func New(r repository.CourseRepository, kbFile string, refresh func()) service.CourseService {
	return &Svc{r: r, kbFile: kbFile, refresh: refresh}
}

func (s *Svc) Create(c *entities.Course) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("course name is required")
	}
	if err := s.r.Create(c); err != nil {
		return err
	}
	return s.regenerateAndRefresh()
}

func (s *Svc) Update(c *entities.Course) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("course name is required")
	}
	if err := s.r.Save(c); err != nil {
		return err
	}
	return s.regenerateAndRefresh()
}

func (s *Svc) Delete(id uint) error {
	if err := s.r.Delete(id); err != nil {
		return err
	}
	return s.regenerateAndRefresh()
}

func (s *Svc) Get(id uint) (*entities.Course, error) { return s.r.ByID(id) }
func (s *Svc) List() ([]entities.Course, error)      { return s.r.All() }

func (s *Svc) regenerateAndRefresh() error {
	if err := s.RegenerateKB(); err != nil {
		return err
	}
	if s.refresh != nil {
		s.refresh()
	}
	return nil
}

// RegenerateKB rewrites the knowledge-base document section by section,
// one course per section, separated by the chunking marker.
func (s *Svc) RegenerateKB() error {
	courses, err := s.r.All()
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("# Program Knowledge Base\n\n")
	for _, c := range courses {
		fmt.Fprintf(&b, "## %s\n\n", c.Name)
		fmt.Fprintf(&b, "### Overview and Purpose\n%s\n\n", c.Overview)
		b.WriteString("### Key Attributes\n")
		fmt.Fprintf(&b, "* **Target Audience:** %s\n", c.TargetAudience)
		fmt.Fprintf(&b, "* **Program Duration:** %s\n", c.Duration)
		fmt.Fprintf(&b, "* **Community Access:** %s\n", c.CommunityAccess)
		fmt.Fprintf(&b, "* **Program Mode:** %s\n", c.Mode)
		fmt.Fprintf(&b, "* **Program Fee:** %s\n", c.Fee)
		cert := "Not specified"
		if c.CertificateProvided {
			cert = "Yes"
		}
		fmt.Fprintf(&b, "* **Certificate:** %s\n\n", cert)
		fmt.Fprintf(&b, "### Key Outcomes and Modules\n%s\n\n", c.Outcomes)
		fmt.Fprintf(&b, "### Interests Aligned\n%s\n\n", c.InterestsAligned)
		b.WriteString("---\n\n")
	}
	if err := os.WriteFile(s.kbFile, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.kbFile, err)
	}
	log.Printf("[course] knowledge base regenerated, %d courses", len(courses))
	return nil
}

var xlsxHeader = []string{
	"Name", "Overview", "Target Audience", "Duration", "Mode", "Fee",
	"Community Access", "Certificate", "Outcomes", "Interests Aligned",
}

func (s *Svc) ExportXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetList()[0]

	hdr := make([]any, len(xlsxHeader))
	for i, h := range xlsxHeader {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return err
	}

	courses, err := s.r.All()
	if err != nil {
		return err
	}
	for i, c := range courses {
		cert := ""
		if c.CertificateProvided {
			cert = "yes"
		}
		row := []any{c.Name, c.Overview, c.TargetAudience, c.Duration, c.Mode, c.Fee,
			c.CommunityAccess, cert, c.Outcomes, c.InterestsAligned}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func (s *Svc) ImportXLSX(r io.Reader) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("spreadsheet has no data rows")
	}

	// Header-mapped columns, tolerant of spacing/case
	norm := func(h string) string {
		h = strings.ToLower(strings.TrimSpace(h))
		h = strings.ReplaceAll(h, " ", "")
		h = strings.ReplaceAll(h, "_", "")
		return h
	}
	col := map[string]int{}
	for i, h := range rows[0] {
		col[norm(h)] = i
	}
	pick := func(row []string, keys ...string) string {
		for _, k := range keys {
			if idx, ok := col[norm(k)]; ok && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
		}
		return ""
	}

	var batch []entities.Course
	for _, row := range rows[1:] {
		name := pick(row, "name", "course", "program")
		if name == "" {
			continue
		}
		cert := strings.ToLower(pick(row, "certificate", "certificate provided"))
		batch = append(batch, entities.Course{
			Name:                name,
			Overview:            pick(row, "overview", "description"),
			TargetAudience:      pick(row, "target audience", "audience"),
			Duration:            pick(row, "duration", "program duration"),
			Mode:                pick(row, "mode", "program mode"),
			Fee:                 pick(row, "fee", "program fee", "cost"),
			CommunityAccess:     pick(row, "community access", "community"),
			CertificateProvided: cert == "yes" || cert == "true" || cert == "1",
			Outcomes:            pick(row, "outcomes", "key outcomes"),
			InterestsAligned:    pick(row, "interests aligned", "interests"),
		})
	}
	if len(batch) == 0 {
		return 0, fmt.Errorf("no rows with a course name found")
	}
	// All-or-nothing: a failed batch leaves the DB untouched, so the
	// knowledge base on disk still matches the catalog.
	if err := s.r.CreateAll(batch); err != nil {
		return 0, err
	}
	return len(batch), s.regenerateAndRefresh()
}

func (s *Svc) ImportFromURL(pageURL, title string) (*entities.Course, error) {
	text, pageTitle, err := fetchMainText(pageURL, 1500000)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = pageTitle
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("page has no title; supply one")
	}
	c := &entities.Course{Name: strings.TrimSpace(title), Overview: text}
	if err := s.r.Create(c); err != nil {
		return nil, err
	}
	return c, s.regenerateAndRefresh()
}

// fetchMainText downloads a page and extracts headings, paragraphs and
// list items from its main content.
func fetchMainText(u string, maxBytes int) (string, string, error) {
	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Get(u)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.ContentLength > 0 && resp.ContentLength > int64(maxBytes) {
		return "", "", fmt.Errorf("page too large")
	}
	limited := io.LimitedReader{R: resp.Body, N: int64(maxBytes)}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(ct, "text/plain") {
		b, err := io.ReadAll(&limited)
		if err != nil {
			return "", "", err
		}
		text := strings.TrimSpace(string(b))
		return text, firstLine(text), nil
	}
	if !strings.Contains(ct, "text/html") {
		return "", "", fmt.Errorf("unsupported content-type: %s", ct)
	}

	doc, err := goquery.NewDocumentFromReader(&limited)
	if err != nil {
		return "", "", err
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())

	var parts []string
	sel := doc.Find("main, article")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	sel.Find("h1,h2,h3,p,li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n"), title, nil
}

func firstLine(s string) string {
	line := strings.SplitN(s, "\n", 2)[0]
	if len(line) > 120 {
		line = line[:120]
	}
	return line
}
