package candidates

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"interview-backend/internal/extract"
)

// fakeStore keeps objects in memory and records keys the way the local
// store shapes them.
type fakeStore struct {
	objects map[string][]byte
	mime    string
}

func newFakeStore(mime string) *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, mime: mime}
}

func (f *fakeStore) Save(ctx context.Context, userId string, fileName string, r io.Reader) (string, int64, string, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := userId + "/" + fileName
	f.objects[key] = data
	return key, int64(len(data)), f.mime, nil
}

func (f *fakeStore) SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	_ = contentType
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.objects[storageKey] = data
	return int64(len(data)), nil
}

func (f *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := f.objects[storageKey]
	if !ok {
		return nil, errors.New("object not found: " + storageKey)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newTestService(store *fakeStore) *Service {
	return &Service{Repo: NewMemoryRepo(), Store: store}
}

func buildZip(t *testing.T, entryName, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(entryName)
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func docxBytes(t *testing.T, text string) []byte {
	t.Helper()
	xml := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body>
</w:document>`
	// Reuse the extractor's docx handling to confirm the fixture is valid.
	data := buildZip(t, "word/document.xml", xml)
	if _, err := extract.ExtractTextFromBytes(context.Background(), data, extractDocxMime, "resume.docx"); err != nil {
		t.Fatalf("fixture docx does not extract: %v", err)
	}
	return data
}

const extractDocxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func TestCreateValidatesProfile(t *testing.T) {
	svc := newTestService(newFakeStore(extractDocxMime))

	cases := []struct {
		name      string
		candidate Candidate
		wantErr   bool
	}{
		{"valid", Candidate{Name: "Jordan Lee", Email: "jordan@example.com", Role: "Backend Engineer"}, false},
		{"missing name", Candidate{Email: "jordan@example.com", Role: "Backend Engineer"}, true},
		{"missing role", Candidate{Name: "Jordan Lee", Email: "jordan@example.com"}, true},
		{"bad email", Candidate{Name: "Jordan Lee", Email: "not-an-email", Role: "Backend Engineer"}, true},
		{"whitespace name", Candidate{Name: "   ", Email: "jordan@example.com", Role: "Backend Engineer"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := svc.Create(context.Background(), tc.candidate)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if created.ID == "" {
				t.Fatal("expected generated id")
			}
			if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
				t.Fatal("expected timestamps to be set")
			}
		})
	}
}

func TestUpdatePreservesResumeFields(t *testing.T) {
	store := newFakeStore(extractDocxMime)
	svc := newTestService(store)

	created, err := svc.Create(context.Background(), Candidate{
		Name: "Jordan Lee", Email: "jordan@example.com", Role: "Backend Engineer",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	uploaded, err := svc.UploadResume(context.Background(), created.ID, "resume.docx", bytes.NewReader(docxBytes(t, "Go and Postgres.")))
	if err != nil {
		t.Fatalf("UploadResume: %v", err)
	}
	if uploaded.ResumeKey == "" || uploaded.ResumeTextKey == "" {
		t.Fatalf("expected resume keys, got %+v", uploaded)
	}

	updated, err := svc.Update(context.Background(), Candidate{
		ID: created.ID, Name: "Jordan Lee", Email: "jordan@example.com", Role: "Staff Engineer",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Role != "Staff Engineer" {
		t.Fatalf("expected role updated, got %q", updated.Role)
	}

	stored, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.ResumeKey != uploaded.ResumeKey {
		t.Fatalf("expected resume key preserved across profile update, got %q", stored.ResumeKey)
	}
}

func TestUploadResumeExtractsText(t *testing.T) {
	store := newFakeStore(extractDocxMime)
	svc := newTestService(store)

	created, err := svc.Create(context.Background(), Candidate{
		Name: "Jordan Lee", Email: "jordan@example.com", Role: "Backend Engineer",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.UploadResume(context.Background(), created.ID, "resume.docx", bytes.NewReader(docxBytes(t, "Shipped the billing service."))); err != nil {
		t.Fatalf("UploadResume: %v", err)
	}

	text, err := svc.ResumeText(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("ResumeText: %v", err)
	}
	if !strings.Contains(text, "Shipped the billing service.") {
		t.Fatalf("expected extracted resume text, got %q", text)
	}
}

func TestUploadResumeUnknownCandidate(t *testing.T) {
	svc := newTestService(newFakeStore(extractDocxMime))
	_, err := svc.UploadResume(context.Background(), "missing", "resume.docx", bytes.NewReader(docxBytes(t, "x")))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResumeTextWithoutUpload(t *testing.T) {
	svc := newTestService(newFakeStore(extractDocxMime))
	created, err := svc.Create(context.Background(), Candidate{
		Name: "Jordan Lee", Email: "jordan@example.com", Role: "Backend Engineer",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.ResumeText(context.Background(), created.ID); !errors.Is(err, ErrNoResume) {
		t.Fatalf("expected ErrNoResume, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := newTestService(newFakeStore(extractDocxMime))
	for _, name := range []string{"First Hire", "Second Hire", "Third Hire"} {
		if _, err := svc.Create(context.Background(), Candidate{
			Name: name, Email: "hire@example.com", Role: "Engineer",
		}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	listed, err := svc.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected limit honored, got %d", len(listed))
	}
}
