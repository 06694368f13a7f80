package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"

	"go.uber.org/zap"
)

func testBackground(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 45))
	for x := 0; x < 64; x++ {
		for y := 0; y < 45; y++ {
			img.Set(x, y, color.RGBA{R: 240, G: 230, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode background: %v", err)
	}
	return buf.Bytes()
}

type certificateFixture struct {
	svc     *CertificateService
	exams   *fakeExams
	results *fakeResults
	assets  *fakeAssets
}

func newCertificateFixture(t *testing.T, percentage float64) *certificateFixture {
	t.Helper()
	f := &certificateFixture{
		exams: &fakeExams{exams: map[uint]*model.Exam{
			5: {ID: 5, Name: "Intro to Go (2026)", CertificateBg: "https://cdn.test/bg.jpg"},
			6: {ID: 6, Name: "No Background"},
		}},
		results: &fakeResults{results: []model.Result{{
			BaseModel:   model.BaseModel{ID: 1},
			ExamID:      5,
			UserID:      "stu-1",
			Score:       percentage / 10,
			TotalMarks:  10,
			Percentage:  percentage,
			AttemptedAt: time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC),
		}}},
		assets: &fakeAssets{data: testBackground(t)},
	}
	students := fakeStudents{"stu-1": {ID: "stu-1", Name: "Ada Lovelace-Byron"}}
	f.svc = NewCertificateService(f.exams, students, f.results, f.assets, zap.NewNop())
	return f
}

func TestCertificateRequiresPassingScore(t *testing.T) {
	f := newCertificateFixture(t, 49.99)
	_, err := f.svc.Prepare(context.Background(), "stu-1", 5)
	if !errors.Is(err, util.ErrPolicyViolation) {
		t.Fatalf("expected policy violation, got %v", err)
	}
	if len(f.assets.refs) != 0 {
		t.Fatal("background must not be fetched for an ineligible result")
	}
}

func TestCertificateRendersPDFAtThreshold(t *testing.T) {
	f := newCertificateFixture(t, 50.00)
	cert, err := f.svc.Prepare(context.Background(), "stu-1", 5)
	if err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if cert.Filename != "certificate_AdaLovelaceByron_IntrotoGo2026.pdf" {
		t.Fatalf("filename = %q", cert.Filename)
	}

	var buf bytes.Buffer
	if err := cert.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.Len() == 0 || !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF (%d bytes)", buf.Len())
	}
	if len(f.assets.refs) != 1 || f.assets.refs[0] != "https://cdn.test/bg.jpg" {
		t.Fatalf("unexpected asset fetches %v", f.assets.refs)
	}
}

func TestCertificateLookupFailures(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		examID uint
		want   error
	}{
		{"missing ids", "", 5, util.ErrInvalidInput},
		{"unknown exam", "stu-1", 9, util.ErrNotFound},
		{"exam without background", "stu-1", 6, util.ErrNotFound},
		{"unknown student", "stu-2", 5, util.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCertificateFixture(t, 80)
			if _, err := f.svc.Prepare(context.Background(), tt.userID, tt.examID); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCertificateWithoutResult(t *testing.T) {
	f := newCertificateFixture(t, 80)
	f.results.results = nil
	if _, err := f.svc.Prepare(context.Background(), "stu-1", 5); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCertificateAssetFailures(t *testing.T) {
	f := newCertificateFixture(t, 80)
	f.assets.err = errStoreDown
	if _, err := f.svc.Prepare(context.Background(), "stu-1", 5); !errors.Is(err, util.ErrCollaborator) {
		t.Fatalf("expected collaborator error, got %v", err)
	}

	f = newCertificateFixture(t, 80)
	f.assets.data = []byte("definitely not an image")
	if _, err := f.svc.Prepare(context.Background(), "stu-1", 5); !errors.Is(err, util.ErrCollaborator) {
		t.Fatalf("expected collaborator error for bad image, got %v", err)
	}
}

func TestCertificateFilename(t *testing.T) {
	long := "Abcdefghijklmnopqrstuvwxyz0123456789"
	got := CertificateFilename(long, "***")
	if got != "certificate_Abcdefghijklmnopqrstuvwxyz0123_exam.pdf" {
		t.Fatalf("got %q", got)
	}
}
