package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"
	"exam_portal_backend/pkg/monitoring"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

const (
	certificateSubtitle = "has successfully completed the examination"
	certificateNameMax  = 30
)

type CertificateService struct {
	exams    ExamStore
	students StudentStore
	results  ResultStore
	assets   AssetFetcher
	log      *zap.Logger
}

func NewCertificateService(exams ExamStore, students StudentStore, results ResultStore, assets AssetFetcher, log *zap.Logger) *CertificateService {
	return &CertificateService{
		exams:    exams,
		students: students,
		results:  results,
		assets:   assets,
		log:      log,
	}
}

// Certificate is a fully laid out document waiting to be written.
type Certificate struct {
	Filename string
	doc      *fpdf.Fpdf
}

// Render writes the PDF. Callers usually stream straight to the response.
func (c *Certificate) Render(w io.Writer) error {
	return c.doc.Output(w)
}

// Prepare checks eligibility, downloads the background and lays out the
// certificate. Every error is returned before any output is produced.
func (s *CertificateService) Prepare(ctx context.Context, userID string, examID uint) (*Certificate, error) {
	cert, err := s.prepare(ctx, userID, examID)
	if err != nil {
		monitoring.CertificatesRendered.WithLabelValues("rejected").Inc()
		return nil, err
	}
	monitoring.CertificatesRendered.WithLabelValues("prepared").Inc()
	return cert, nil
}

func (s *CertificateService) prepare(ctx context.Context, userID string, examID uint) (*Certificate, error) {
	if examID == 0 || strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user_id and exam_id are required", util.ErrInvalidInput)
	}

	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, lookupError(err, "load exam")
	}
	if strings.TrimSpace(exam.CertificateBg) == "" {
		return nil, fmt.Errorf("certificate background %w", util.ErrNotFound)
	}

	student, err := s.students.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "load student")
	}

	result, err := s.results.FindLatest(ctx, examID, userID)
	if err != nil {
		return nil, lookupError(err, "load result")
	}
	if result.Percentage < PassPercentage {
		return nil, fmt.Errorf("%w: a certificate requires at least %.0f%%, got %.2f%%", util.ErrPolicyViolation, PassPercentage, result.Percentage)
	}

	background, err := s.assets.Fetch(ctx, exam.CertificateBg)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch certificate background: %v", util.ErrCollaborator, err)
	}

	doc, err := layoutCertificate(background, student.DisplayName(), exam.Name, result)
	if err != nil {
		return nil, fmt.Errorf("%w: render certificate: %v", util.ErrCollaborator, err)
	}

	s.log.Info("Certificate prepared", zap.Uint("exam_id", examID), zap.String("user_id", userID), zap.Uint("result_id", result.ID))
	return &Certificate{
		Filename: CertificateFilename(student.DisplayName(), exam.Name),
		doc:      doc,
	}, nil
}

// CertificateFilename builds certificate_<student>_<exam>.pdf from
// alphanumeric-only, truncated names.
func CertificateFilename(studentName, examName string) string {
	return fmt.Sprintf("certificate_%s_%s.pdf",
		util.SafeFilenamePart(studentName, certificateNameMax, "student"),
		util.SafeFilenamePart(examName, certificateNameMax, "exam"),
	)
}

func imageType(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return "JPG", nil
	case "image/png":
		return "PNG", nil
	case "image/gif":
		return "GIF", nil
	default:
		return "", fmt.Errorf("unsupported background format %s", http.DetectContentType(data))
	}
}

// layoutCertificate draws an A4 landscape page: full-bleed background,
// centered name, subtitle, exam name and score line, and the attempt date
// in the bottom-left corner.
func layoutCertificate(background []byte, studentName, examName string, result *model.Result) (*fpdf.Fpdf, error) {
	imgType, err := imageType(background)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Certificate - "+examName, true)
	pdf.SetCreator("exam-portal", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	w, h := pdf.GetPageSize()

	opts := fpdf.ImageOptions{ImageType: imgType}
	pdf.RegisterImageOptionsReader("background", opts, bytes.NewReader(background))
	pdf.ImageOptions("background", 0, 0, w, h, false, opts, 0, "")

	pdf.SetTextColor(33, 33, 33)

	pdf.SetFont("Helvetica", "B", 34)
	pdf.SetXY(0, h*0.36)
	pdf.CellFormat(w, 16, tr(studentName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetX(0)
	pdf.CellFormat(w, 10, certificateSubtitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetX(0)
	pdf.CellFormat(w, 14, tr(examName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetX(0)
	scoreLine := fmt.Sprintf("Score: %s / %s | Percentage: %.2f%%",
		util.FormatNumber(result.Score), util.FormatNumber(result.TotalMarks), result.Percentage)
	pdf.CellFormat(w, 10, scoreLine, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetXY(20, h-25)
	pdf.CellFormat(100, 8, result.AttemptedAt.Format(util.CertificateFormat), "", 0, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	return pdf, nil
}
