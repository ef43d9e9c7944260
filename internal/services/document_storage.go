package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
)

// ErrStorageUnavailable is returned when no storage backend is configured.
var ErrStorageUnavailable = errors.New("document storage is not configured")

const (
	medicalDocumentsFolder = "medical-documents"
	signedLinkTTL          = time.Hour
	storageErrorBodyLimit  = 2048
)

// DocumentStorage keeps the medical documents attached to physical
// assessments.
type DocumentStorage interface {
	SaveMedicalDocument(ctx context.Context, phoneID string, upload DocumentUpload) (intake.Document, error)
	RemoveDocument(ctx context.Context, fileURL string) error
	SignDocumentURL(ctx context.Context, fileURL string) (string, error)
}

// DocumentUpload is a medical document received from the client.
type DocumentUpload struct {
	FileName    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// NewDocumentStorage returns the Supabase backend, or a stub answering
// ErrStorageUnavailable when any setting is missing.
func NewDocumentStorage(baseURL, bucket, serviceKey string) DocumentStorage {
	if baseURL == "" || bucket == "" || serviceKey == "" {
		return unavailableStorage{}
	}
	return NewSupabaseDocumentStorage(baseURL, bucket, serviceKey)
}

type unavailableStorage struct{}

func (unavailableStorage) SaveMedicalDocument(context.Context, string, DocumentUpload) (intake.Document, error) {
	return intake.Document{}, ErrStorageUnavailable
}

func (unavailableStorage) RemoveDocument(context.Context, string) error { return ErrStorageUnavailable }

func (unavailableStorage) SignDocumentURL(context.Context, string) (string, error) {
	return "", ErrStorageUnavailable
}

// SupabaseDocumentStorage stores documents in a Supabase Storage bucket.
// Objects live under medical-documents/<phone id>/<random id><ext>.
type SupabaseDocumentStorage struct {
	baseURL    string
	bucket     string
	serviceKey string
	httpClient *http.Client
	newID      func() string
}

func NewSupabaseDocumentStorage(baseURL, bucket, serviceKey string) *SupabaseDocumentStorage {
	return &SupabaseDocumentStorage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bucket:     bucket,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		newID:      uuid.NewString,
	}
}

// storageStatusError is a non-2xx answer from the storage API.
type storageStatusError struct {
	op     string
	status int
	body   string
}

func (e *storageStatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.op, e.status, e.body)
}

func medicalDocumentKey(phoneID, id, fileName, contentType string) (string, error) {
	phoneID = strings.TrimSpace(phoneID)
	if phoneID == "" {
		return "", intake.ErrMissingPhoneID
	}
	if strings.ContainsAny(phoneID, `/\`) || phoneID == "." || phoneID == ".." {
		return "", fmt.Errorf("invalid phone id %q for a storage key", phoneID)
	}
	return path.Join(medicalDocumentsFolder, phoneID, id+intake.DocumentExtension(fileName, contentType)), nil
}

// SaveMedicalDocument uploads the file and returns it as an attachable
// document. Content over the size limit is refused without an upload.
func (s *SupabaseDocumentStorage) SaveMedicalDocument(ctx context.Context, phoneID string, upload DocumentUpload) (intake.Document, error) {
	key, err := medicalDocumentKey(phoneID, s.newID(), upload.FileName, upload.ContentType)
	if err != nil {
		return intake.Document{}, err
	}

	content, err := io.ReadAll(io.LimitReader(upload.Content, intake.MaxDocumentSize+1))
	if err != nil {
		return intake.Document{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > intake.MaxDocumentSize {
		return intake.Document{}, intake.ErrDocumentTooLarge
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}
	header := http.Header{}
	header.Set("Content-Type", contentType)
	header.Set("x-upsert", "true")

	resp, err := s.send(ctx, "upload document", http.MethodPost, s.endpoint("object", key), bytes.NewReader(content), header)
	if err != nil {
		return intake.Document{}, err
	}
	resp.Body.Close()

	return intake.Document{
		Name:        upload.FileName,
		Size:        int64(len(content)),
		ContentType: contentType,
		URL:         s.endpoint("object/public", key),
	}, nil
}

// RemoveDocument deletes a stored document. A document already gone is not
// an error.
func (s *SupabaseDocumentStorage) RemoveDocument(ctx context.Context, fileURL string) error {
	key, err := s.objectKey(fileURL)
	if err != nil {
		return err
	}

	resp, err := s.send(ctx, "delete document", http.MethodDelete, s.endpoint("object", key), nil, nil)
	var statusErr *storageStatusError
	if errors.As(err, &statusErr) && statusErr.status == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// SignDocumentURL returns a link to the document valid for signedLinkTTL.
func (s *SupabaseDocumentStorage) SignDocumentURL(ctx context.Context, fileURL string) (string, error) {
	key, err := s.objectKey(fileURL)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]int{"expiresIn": int(signedLinkTTL.Seconds())})
	if err != nil {
		return "", fmt.Errorf("marshal signed url payload: %w", err)
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := s.send(ctx, "sign document url", http.MethodPost, s.endpoint("object/sign", key), bytes.NewReader(body), header)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("decode signed url response: %w", err)
	}
	if signed.SignedURL == "" {
		return "", errors.New("signed url missing from response")
	}
	return s.baseURL + "/storage/v1" + signed.SignedURL, nil
}

// send performs an authenticated storage request. Any non-2xx answer is
// returned as a *storageStatusError with the body closed.
func (s *SupabaseDocumentStorage) send(ctx context.Context, op, method, endpoint string, body io.Reader, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	for key, values := range header {
		req.Header[key] = values
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		text, _ := io.ReadAll(io.LimitReader(resp.Body, storageErrorBodyLimit))
		return nil, &storageStatusError{op: op, status: resp.StatusCode, body: strings.TrimSpace(string(text))}
	}
	return resp, nil
}

func (s *SupabaseDocumentStorage) endpoint(kind, key string) string {
	return fmt.Sprintf("%s/storage/v1/%s/%s/%s", s.baseURL, kind, s.bucket, key)
}

// objectKey recovers the object key from a public or private object URL of
// this bucket.
func (s *SupabaseDocumentStorage) objectKey(fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}
	for _, kind := range []string{"object/public", "object"} {
		prefix := "/storage/v1/" + kind + "/" + s.bucket + "/"
		if key, ok := strings.CutPrefix(parsed.Path, prefix); ok && key != "" {
			return key, nil
		}
	}
	return "", errors.New("file url does not belong to the documents bucket")
}
