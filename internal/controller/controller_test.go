package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/service"
	"exam_portal_backend/internal/util"
	"exam_portal_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type staticAssets struct {
	data []byte
}

func (a staticAssets) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return a.data, nil
}

type testServer struct {
	db        *gorm.DB
	uploadDir string
	claims    *util.Claims
	router    *gin.Engine
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := 0; x < 32; x++ {
		for y := 0; y < 24; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 220, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := &testServer{
		db:        db,
		uploadDir: t.TempDir(),
		claims:    studentClaims("stu-1"),
	}

	cfg := &config.Config{Storage: config.StorageConfig{
		Type:          util.StorageLocal,
		LocalPath:     s.uploadDir,
		PublicBaseURL: "http://localhost:8080",
	}}
	log := zap.NewNop()

	exams := repository.NewExamRepository(db)
	questions := repository.NewQuestionRepository(db)
	results := repository.NewResultRepository(db)
	access := repository.NewAccessRepository(db)
	storage := service.NewStorageService(cfg, log)
	records := service.AttemptRecords{
		Results: results,
		Access:  access,
		Logs:    repository.NewAttemptLogRepository(db),
	}

	submissions := NewSubmissionController(service.NewSubmissionService(exams, questions, records, log))
	enrollments := NewEnrollmentController(service.NewEnrollmentService(repository.NewEnrollmentRepository(db), access, storage, log))
	reExams := NewReExamController(service.NewReExamService(repository.NewReExamRepository(db), log))
	certificates := NewCertificateController(service.NewCertificateService(
		exams, repository.NewStudentRepository(db), results, staticAssets{data: pngBytes(t)}, log,
	))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if s.claims != nil {
			c.Set("user", s.claims)
		}
		c.Next()
	})
	r.POST("/exam/submit", submissions.Submit)
	r.GET("/exam-result/:result_id", submissions.GetResult)
	r.GET("/exam/:exam_id/result/:user_id", submissions.GetPreviousResult)
	r.GET("/exam/:exam_id/attempts/:user_id", submissions.GetPreviousAttempt)
	r.GET("/exam/:exam_id/access/:user_id", enrollments.AccessStatus)
	r.POST("/enroll", enrollments.Enroll)
	r.GET("/enrollment/:exam_id/:user_id", enrollments.CheckEnrollment)
	r.POST("/submit-exam", submissions.Submit)
	r.POST("/re-exam/request", reExams.RequestReExam)
	r.GET("/certificate/:user_id/:exam_id", certificates.Download)
	s.router = r

	return s
}

func studentClaims(id string) *util.Claims {
	c := &util.Claims{Role: model.RoleStudent}
	c.Subject = id
	return c
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedExam(t *testing.T, bg string) (*model.Exam, []model.Question) {
	t.Helper()
	ctx := context.Background()
	exam := &model.Exam{Name: "Networks", Type: "final", CertificateBg: bg}
	if err := repository.NewExamRepository(s.db).Create(ctx, exam); err != nil {
		t.Fatalf("create exam: %v", err)
	}

	repo := repository.NewQuestionRepository(s.db)
	var questions []model.Question
	for _, correct := range []string{"TCP", "UDP"} {
		q := model.Question{ExamID: exam.ID, Question: "Which protocol?", Correct: correct}
		if err := q.SetOptions([]string{"TCP", "UDP", "ICMP"}); err != nil {
			t.Fatalf("set options: %v", err)
		}
		if err := repo.Create(ctx, &q); err != nil {
			t.Fatalf("create question: %v", err)
		}
		questions = append(questions, q)
	}
	return exam, questions
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, data interface{}) util.Response {
	t.Helper()
	var raw struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return util.Response{Code: raw.Code, Message: raw.Message}
}

func TestSubmitBeaconBodyStoresResult(t *testing.T) {
	s := newTestServer(t)
	exam, questions := s.seedExam(t, "")

	body := `{"exam_id":` + util.FormatUint(exam.ID) + `,"time_taken":120,"submission_status":"submitted","answers":{` +
		`"` + util.FormatUint(questions[0].ID) + `":{"selectedOption":" TCP "},` +
		`"` + util.FormatUint(questions[1].ID) + `":{"selectedOption":"ICMP"}}}`
	req := httptest.NewRequest(http.MethodPost, "/exam/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")

	w := s.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: status %d body %s", w.Code, w.Body.String())
	}
	var resp service.SubmitResponse
	decodeEnvelope(t, w, &resp)
	if resp.Correct != 1 || resp.Incorrect != 1 || resp.Percentage != "50.00" || !resp.Passed {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.ResultID == 0 {
		t.Fatal("submitted mode must return the stored result id")
	}

	w = s.do(httptest.NewRequest(http.MethodGet, "/exam/"+util.FormatUint(exam.ID)+"/result/stu-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("previous result: status %d body %s", w.Code, w.Body.String())
	}
	var result model.Result
	decodeEnvelope(t, w, &result)
	if result.ID != resp.ResultID || result.TimeTaken != 120 {
		t.Fatalf("unexpected stored result %+v", result)
	}

	w = s.do(httptest.NewRequest(http.MethodGet, "/exam/"+util.FormatUint(exam.ID)+"/access/stu-1", nil))
	var status model.AccessStatus
	decodeEnvelope(t, w, &status)
	if status.Attempted != model.SubmissionSubmitted {
		t.Fatalf("expected submitted access marker, got %+v", status)
	}
}

func TestSubmitExamAliasRoute(t *testing.T) {
	s := newTestServer(t)
	exam, questions := s.seedExam(t, "")

	body := `{"exam_id":` + util.FormatUint(exam.ID) + `,"submission_status":"submitted","answers":{"` +
		util.FormatUint(questions[0].ID) + `":{"selectedOption":"TCP"}}}`
	w := s.do(httptest.NewRequest(http.MethodPost, "/submit-exam", strings.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("submit-exam: status %d body %s", w.Code, w.Body.String())
	}
	var resp service.SubmitResponse
	decodeEnvelope(t, w, &resp)
	if resp.Correct != 1 || resp.ResultID == 0 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSubmitDraftDoesNotStoreResult(t *testing.T) {
	s := newTestServer(t)
	exam, questions := s.seedExam(t, "")

	body := `{"exam_id":` + util.FormatUint(exam.ID) + `,"answers":{"` + util.FormatUint(questions[1].ID) + `":{"selectedOption":"UDP"}}}`
	req := httptest.NewRequest(http.MethodPost, "/exam/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if w := s.do(req); w.Code != http.StatusOK {
		t.Fatalf("draft: status %d body %s", w.Code, w.Body.String())
	}

	w := s.do(httptest.NewRequest(http.MethodGet, "/exam/"+util.FormatUint(exam.ID)+"/result/stu-1", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected no result for a draft, got %d", w.Code)
	}

	w = s.do(httptest.NewRequest(http.MethodGet, "/exam/"+util.FormatUint(exam.ID)+"/attempts/stu-1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("previous attempt: status %d body %s", w.Code, w.Body.String())
	}
	var attempt model.PreviousAttempt
	decodeEnvelope(t, w, &attempt)
	if len(attempt.Answers) != 1 || attempt.Answers[0].SelectedOption != "UDP" {
		t.Fatalf("unexpected attempt %+v", attempt)
	}
}

func TestSubmitForAnotherStudentForbidden(t *testing.T) {
	s := newTestServer(t)
	exam, _ := s.seedExam(t, "")

	body := `{"exam_id":` + util.FormatUint(exam.ID) + `,"user_id":"stu-2","answers":{}}`
	req := httptest.NewRequest(http.MethodPost, "/exam/submit", strings.NewReader(body))
	if w := s.do(req); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestSubmitMalformedBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/exam/submit", strings.NewReader("{not json"))
	if w := s.do(req); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestEnrollStoresPaymentProof(t *testing.T) {
	s := newTestServer(t)
	exam, _ := s.seedExam(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("exam_id", util.FormatUint(exam.ID))
	mw.WriteField("user_id", "stu-1")
	part, err := mw.CreateFormFile("payment_proof", "receipt.PNG")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(pngBytes(t))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/enroll", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req)
	if w.Code != http.StatusCreated {
		t.Fatalf("enroll: status %d body %s", w.Code, w.Body.String())
	}
	var enrollment model.Enrollment
	decodeEnvelope(t, w, &enrollment)
	if enrollment.Status != model.EnrollmentPending {
		t.Fatalf("expected pending enrollment, got %q", enrollment.Status)
	}
	if !strings.HasPrefix(enrollment.PaymentURL, "http://localhost:8080/uploads/"+util.FolderEnrollmentPayments+"/") {
		t.Fatalf("unexpected payment url %q", enrollment.PaymentURL)
	}
	if !strings.HasSuffix(enrollment.PaymentURL, ".png") {
		t.Fatalf("extension should be lower-cased, got %q", enrollment.PaymentURL)
	}

	entries, err := os.ReadDir(filepath.Join(s.uploadDir, util.FolderEnrollmentPayments))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one stored proof, got %v (%v)", entries, err)
	}

	w = s.do(httptest.NewRequest(http.MethodGet, "/enrollment/"+util.FormatUint(exam.ID)+"/stu-1", nil))
	var check model.EnrollmentCheck
	decodeEnvelope(t, w, &check)
	if !check.Enrolled || check.Status != model.EnrollmentPending {
		t.Fatalf("unexpected check %+v", check)
	}
}

func TestEnrollAcceptsProofUnderFileField(t *testing.T) {
	s := newTestServer(t)
	exam, _ := s.seedExam(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("exam_id", util.FormatUint(exam.ID))
	mw.WriteField("user_id", "stu-1")
	part, err := mw.CreateFormFile("file", "receipt.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(pngBytes(t))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/enroll", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := s.do(req)
	if w.Code != http.StatusCreated {
		t.Fatalf("enroll: status %d body %s", w.Code, w.Body.String())
	}
	var enrollment model.Enrollment
	decodeEnvelope(t, w, &enrollment)
	if enrollment.PaymentURL == "" {
		t.Fatal("payment proof sent as file was not stored")
	}
	entries, err := os.ReadDir(filepath.Join(s.uploadDir, util.FolderEnrollmentPayments))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one stored proof, got %v (%v)", entries, err)
	}
}

func TestEnrollDuplicateRemovesUploadedProof(t *testing.T) {
	s := newTestServer(t)
	exam, _ := s.seedExam(t, "")

	enroll := func() *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		mw.WriteField("exam_id", util.FormatUint(exam.ID))
		mw.WriteField("user_id", "stu-1")
		part, _ := mw.CreateFormFile("file", "receipt.png")
		part.Write(pngBytes(t))
		mw.Close()
		req := httptest.NewRequest(http.MethodPost, "/enroll", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return s.do(req)
	}

	if w := enroll(); w.Code != http.StatusCreated {
		t.Fatalf("first enroll: status %d", w.Code)
	}
	w := enroll()
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("duplicate enroll: expected 500, got %d", w.Code)
	}
	if env := decodeEnvelope(t, w, nil); !strings.Contains(env.Message, "failed to enrol in exam") {
		t.Fatalf("unexpected message %q", env.Message)
	}

	entries, _ := os.ReadDir(filepath.Join(s.uploadDir, util.FolderEnrollmentPayments))
	if len(entries) != 1 {
		t.Fatalf("orphaned proof left behind: %d files", len(entries))
	}
}

func TestEnrollRejectsUnsupportedProof(t *testing.T) {
	s := newTestServer(t)
	exam, _ := s.seedExam(t, "")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("exam_id", util.FormatUint(exam.ID))
	mw.WriteField("user_id", "stu-1")
	part, _ := mw.CreateFormFile("payment_proof", "notes.txt")
	part.Write([]byte("plain text is not a receipt"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/enroll", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if w := s.do(req); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestReExamDuplicateRequestRejected(t *testing.T) {
	s := newTestServer(t)
	exam, _ := s.seedExam(t, "")

	body := `{"exam_id":` + util.FormatUint(exam.ID) + `,"reason":"power cut during the exam"}`
	w := s.do(httptest.NewRequest(http.MethodPost, "/re-exam/request", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("first request: status %d body %s", w.Code, w.Body.String())
	}
	var created model.ReExamRequest
	decodeEnvelope(t, w, &created)
	if created.UserID != "stu-1" || created.Status != model.ReExamPending {
		t.Fatalf("unexpected request %+v", created)
	}

	w = s.do(httptest.NewRequest(http.MethodPost, "/re-exam/request", strings.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate request: expected 400, got %d", w.Code)
	}
}

func (s *testServer) seedPassingResult(t *testing.T, examID uint, percentage float64) {
	t.Helper()
	ctx := context.Background()
	if err := repository.NewStudentRepository(s.db).Create(ctx, &model.Student{ID: "stu-1", Name: "Grace Hopper"}); err != nil {
		t.Fatalf("create student: %v", err)
	}
	result := &model.Result{
		ExamID:      examID,
		UserID:      "stu-1",
		Correct:     1,
		Incorrect:   1,
		Score:       1,
		TotalMarks:  2,
		Percentage:  percentage,
		AttemptedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	if err := repository.NewResultRepository(s.db).Create(ctx, result); err != nil {
		t.Fatalf("create result: %v", err)
	}
}

func TestCertificateDownloadStreamsPDF(t *testing.T) {
	s := newTestServer(t)
	exam, _ := s.seedExam(t, "/uploads/backgrounds/bg.png")
	s.seedPassingResult(t, exam.ID, 50)

	w := s.do(httptest.NewRequest(http.MethodGet, "/certificate/stu-1/"+util.FormatUint(exam.ID), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("download: status %d body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != util.MimePDF {
		t.Fatalf("unexpected content type %q", ct)
	}
	want := `attachment; filename="certificate_GraceHopper_Networks.pdf"`
	if cd := w.Header().Get("Content-Disposition"); cd != want {
		t.Fatalf("content disposition = %q, want %q", cd, want)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("body is not a PDF document")
	}
}

func TestCertificateBelowPassMark(t *testing.T) {
	s := newTestServer(t)
	exam, _ := s.seedExam(t, "/uploads/backgrounds/bg.png")
	s.seedPassingResult(t, exam.ID, 49.99)

	w := s.do(httptest.NewRequest(http.MethodGet, "/certificate/stu-1/"+util.FormatUint(exam.ID), nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCertificateForAnotherStudentForbidden(t *testing.T) {
	s := newTestServer(t)
	exam, _ := s.seedExam(t, "/uploads/backgrounds/bg.png")

	w := s.do(httptest.NewRequest(http.MethodGet, "/certificate/stu-9/"+util.FormatUint(exam.ID), nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequestsWithoutUserUnauthorized(t *testing.T) {
	s := newTestServer(t)
	s.claims = nil

	w := s.do(httptest.NewRequest(http.MethodGet, "/exam/1/result/stu-1", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
