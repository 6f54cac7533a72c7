package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pm-ajay/adarsh-gram-api/internal/models"
	"github.com/pm-ajay/adarsh-gram-api/pkg/export"
	"github.com/pm-ajay/adarsh-gram-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	villages   villageRepository
	projects   projectRepository
	grievances grievanceRepository
	vCounts    villageCounter
	pCounts    projectCounter
	gCounts    grievanceCounter
	storage    fileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	cfg        ExportConfig
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Villages        villageRepository
	Projects        projectRepository
	Grievances      grievanceRepository
	VillageCounts   villageCounter
	ProjectCounts   projectCounter
	GrievanceCounts grievanceCounter
	Storage         fileStorage
	Signer          *storage.SignedURLSigner
	Config          ExportConfig
	Logger          *zap.Logger
	CSV             csvRenderer
	PDF             pdfRenderer
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := params.Config
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		villages:   params.Villages,
		projects:   params.Projects,
		grievances: params.Grievances,
		vCounts:    params.VillageCounts,
		pCounts:    params.ProjectCounts,
		gCounts:    params.GrievanceCounts,
		storage:    params.Storage,
		csv:        csv,
		pdf:        pdf,
		signer:     params.Signer,
		logger:     logger,
		cfg:        cfg,
	}
}

// Generate builds the dataset for the job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/reports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	districtPart := sanitizeFilename(deref(job.Params.District))
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), districtPart, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "all"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(strings.ToLower(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeVillages:
		return s.buildVillageDataset(ctx, job.Params)
	case models.ReportTypeProjects:
		return s.buildProjectDataset(ctx, job.Params)
	case models.ReportTypeGrievances:
		return s.buildGrievanceDataset(ctx, job.Params)
	case models.ReportTypeSummary:
		return s.buildSummaryDataset(ctx)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildVillageDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	villages, err := s.villages.List(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	district := deref(params.District)
	rows := make([]map[string]string, 0, len(villages))
	for _, v := range villages {
		if district != "" && !strings.EqualFold(v.District, district) {
			continue
		}
		row := map[string]string{
			"Village":        v.Name,
			"District":       v.District,
			"Block":          v.Block,
			"Population":     fmt.Sprintf("%d", v.Population),
			"SC (%)":         fmt.Sprintf("%.1f", v.SCPercentage),
			"Priority Index": fmt.Sprintf("%.1f", v.PriorityIndex),
			"Priority Band":  string(models.BandForPriorityIndex(v.PriorityIndex)),
			"Onboarded":      yesNo(v.Onboarded),
		}
		for _, facility := range v.Infrastructure.Facilities() {
			row[facilityHeader(facility.Name)] = string(facility.Status.Classify())
		}
		rows = append(rows, row)
	}
	headers := []string{"Village", "District", "Block", "Population", "SC (%)", "Priority Index", "Priority Band", "Onboarded"}
	for _, facility := range (models.Infrastructure{}).Facilities() {
		headers = append(headers, facilityHeader(facility.Name))
	}
	title := "Village Register"
	if district != "" {
		title = fmt.Sprintf("Village Register - %s", district)
	}
	return export.Dataset{Headers: headers, Rows: rows}, title, nil
}

func (s *ExportService) buildProjectDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	villagesByID, err := s.villagesByID(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	district := deref(params.District)
	rows := make([]map[string]string, 0, len(projects))
	for _, p := range projects {
		village, ok := villagesByID[p.VillageID]
		if district != "" && (!ok || !strings.EqualFold(village.District, district)) {
			continue
		}
		rows = append(rows, map[string]string{
			"Title":        p.Title,
			"Category":     p.Category,
			"Village":      villageNameOrFallback(villagesByID, p.VillageID),
			"Status":       string(p.Status),
			"Progress (%)": fmt.Sprintf("%d", p.Progress),
			"Budget":       fmt.Sprintf("%d", p.Budget),
			"Spent":        fmt.Sprintf("%d", p.SpentAmount),
			"Officer":      p.AssignedOfficer,
		})
	}
	headers := []string{"Title", "Category", "Village", "Status", "Progress (%)", "Budget", "Spent", "Officer"}
	title := "Project Register"
	if district != "" {
		title = fmt.Sprintf("Project Register - %s", district)
	}
	return export.Dataset{Headers: headers, Rows: rows}, title, nil
}

func (s *ExportService) buildGrievanceDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	grievances, err := s.grievances.List(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	villagesByID, err := s.villagesByID(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	district := deref(params.District)
	rows := make([]map[string]string, 0, len(grievances))
	for _, g := range grievances {
		village, ok := villagesByID[g.VillageID]
		if district != "" && (!ok || !strings.EqualFold(village.District, district)) {
			continue
		}
		rows = append(rows, map[string]string{
			"Title":     g.Title,
			"Category":  g.Category,
			"Village":   villageNameOrFallback(villagesByID, g.VillageID),
			"Citizen":   g.CitizenName,
			"Status":    string(g.Status),
			"Priority":  string(g.Priority),
			"Submitted": g.SubmittedDate.UTC().Format(time.RFC3339),
			"Resolved":  formatReportTime(g.ResolvedDate),
		})
	}
	headers := []string{"Title", "Category", "Village", "Citizen", "Status", "Priority", "Submitted", "Resolved"}
	title := "Grievance Register"
	if district != "" {
		title = fmt.Sprintf("Grievance Register - %s", district)
	}
	return export.Dataset{Headers: headers, Rows: rows}, title, nil
}

func (s *ExportService) buildSummaryDataset(ctx context.Context) (export.Dataset, string, error) {
	villageCounts, err := s.vCounts.Counts(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	projectCounts, err := s.pCounts.Counts(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	grievanceCounts, err := s.gCounts.Counts(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}

	rows := []map[string]string{
		{"Metric": "Total Villages", "Value": fmt.Sprintf("%d", villageCounts.Total)},
		{"Metric": "Onboarded Villages", "Value": fmt.Sprintf("%d", villageCounts.Onboarded)},
		{"Metric": "Active Projects", "Value": fmt.Sprintf("%d", projectCounts.Active)},
		{"Metric": "Completed Projects", "Value": fmt.Sprintf("%d", projectCounts.Completed)},
		{"Metric": "Project Completion Rate (%)", "Value": fmt.Sprintf("%d", models.Rate(projectCounts.Completed, projectCounts.Active))},
		{"Metric": "Pending Grievances", "Value": fmt.Sprintf("%d", grievanceCounts.Pending)},
		{"Metric": "Resolved Grievances", "Value": fmt.Sprintf("%d", grievanceCounts.Resolved)},
		{"Metric": "Grievance Resolution Rate (%)", "Value": fmt.Sprintf("%d", models.Rate(grievanceCounts.Resolved, grievanceCounts.Pending))},
		{"Metric": "Average Satisfaction", "Value": fmt.Sprintf("%.1f", villageCounts.AverageSatisfaction)},
		{"Metric": "Budget Utilization (%)", "Value": fmt.Sprintf("%.1f", budgetUtilization(projectCounts.TotalSpent, projectCounts.TotalBudget))},
	}

	dataset := export.Dataset{Headers: []string{"Metric", "Value"}, Rows: rows}
	return dataset, "Programme Summary", nil
}

func (s *ExportService) villagesByID(ctx context.Context) (map[string]models.Village, error) {
	villages, err := s.villages.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Village, len(villages))
	for _, v := range villages {
		byID[v.ID] = v
	}
	return byID, nil
}

func villageNameOrFallback(villages map[string]models.Village, id string) string {
	if v, ok := villages[id]; ok {
		return v.Name
	}
	return UnknownVillageName
}

func facilityHeader(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func formatReportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
