package util

const (
	DateFormat        = "2006-01-02"
	TimeFormat        = "2006-01-02 15:04:05"
	CertificateFormat = "January 2, 2006"
)

const (
	StorageLocal    = "local"
	StorageMinio    = "minio"
	StorageOSS      = "oss"
	StorageSupabase = "supabase"
)

// Object store folders.
const (
	FolderEnrollmentPayments = "exam_enrollments_payments"
	FolderQuestions          = "questions"
)

const (
	MimeImage       = "image/"
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

// MaxUploadSize caps payment proofs and question images.
const MaxUploadSize = 10 << 20
