package uploader

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TripDesk-Travel/Attachment-Service/internal/models"
	"github.com/TripDesk-Travel/Attachment-Service/internal/services"
	"github.com/TripDesk-Travel/Attachment-Service/internal/staging"
)

type fakeStore struct {
	calls     int
	failCall  int
	signErr   error
	removeErr error
	uploaded  []string
	removed   []string
}

func (s *fakeStore) UploadWithProgress(_ context.Context, objectName string, data []byte, _ string, onProgress services.ProgressFunc) error {
	s.calls++
	if s.calls == s.failCall {
		return errors.New("connection reset")
	}
	if onProgress != nil {
		onProgress(int64(len(data)), int64(len(data)))
	}
	s.uploaded = append(s.uploaded, objectName)
	return nil
}

func (s *fakeStore) SignedURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://signed.example/" + objectName, nil
}

func (s *fakeStore) RemoveObject(_ context.Context, objectName string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	s.removed = append(s.removed, objectName)
	return nil
}

type fakeMeta struct {
	saveErr    error
	deleteFail bool
	saved      []models.Attachment
	deleted    []string
}

func (m *fakeMeta) SaveAttachment(a models.Attachment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, a)
	return nil
}

func (m *fakeMeta) DeleteAttachment(id string) bool {
	if m.deleteFail {
		return false
	}
	m.deleted = append(m.deleted, id)
	return true
}

type fakeBus struct{ subjects []string }

func (b *fakeBus) Publish(subject string, _ interface{}) error {
	b.subjects = append(b.subjects, subject)
	return nil
}

func testDriver() (*Driver, *fakeStore, *fakeMeta, *fakeBus) {
	store := &fakeStore{}
	meta := &fakeMeta{}
	bus := &fakeBus{}
	return &Driver{Store: store, Meta: meta, Bus: bus}, store, meta, bus
}

func pendingFile(name string) models.PendingFile {
	return models.PendingFile{Name: name, Size: 4, Data: []byte("data"), Category: "other", AddedAt: time.Now()}
}

func TestUploadOne(t *testing.T) {
	d, store, meta, bus := testDriver()

	var percents []int
	a, err := d.UploadOne(context.Background(), pendingFile("receipt.pdf"), "u1", "t1", func(p int) {
		percents = append(percents, p)
	})
	require.NoError(t, err)

	require.Len(t, meta.saved, 1)
	row := meta.saved[0]
	assert.True(t, strings.HasPrefix(row.FileURL, "u1/t1/"), row.FileURL)
	assert.Equal(t, "application/pdf", row.FileType)
	assert.Equal(t, int64(4), row.FileSize)
	assert.Equal(t, "pending", row.ScanStatus)

	assert.Equal(t, []string{"attachments.uploaded"}, bus.subjects)
	assert.Equal(t, []string{row.FileURL}, store.uploaded)
	assert.Equal(t, "https://signed.example/"+row.FileURL, a.DisplayURL)
	assert.Equal(t, row.FileURL, a.StoragePath)
	assert.Contains(t, percents, 100)
}

func TestUploadOneStorageFailureCreatesNoRow(t *testing.T) {
	d, store, meta, bus := testDriver()
	store.failCall = 1

	_, err := d.UploadOne(context.Background(), pendingFile("receipt.pdf"), "u1", "t1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload error for receipt.pdf")
	assert.Empty(t, meta.saved, "a storage failure must not create a metadata row")
	assert.Empty(t, bus.subjects)
}

func TestUploadOneInsertFailureLeavesObject(t *testing.T) {
	d, store, meta, bus := testDriver()
	meta.saveErr = errors.New("insert failed")

	_, err := d.UploadOne(context.Background(), pendingFile("receipt.pdf"), "u1", "t1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save metadata for receipt.pdf")
	assert.Len(t, store.uploaded, 1, "the uploaded object stays; the owner sweep reclaims it")
	assert.Empty(t, store.removed, "no rollback")
	assert.Empty(t, bus.subjects)
}

func TestUploadOneSignedURLFailureStillCounts(t *testing.T) {
	d, store, meta, _ := testDriver()
	store.signErr = errors.New("presign failed")

	a, err := d.UploadOne(context.Background(), pendingFile("receipt.pdf"), "u1", "t1", nil)
	require.NoError(t, err, "the row was created; URL issuance is best-effort")
	require.Len(t, meta.saved, 1)
	assert.Equal(t, meta.saved[0].FileURL, a.DisplayURL, "raw path stands in")
}

func TestUploadOneWithoutStore(t *testing.T) {
	d := &Driver{Meta: &fakeMeta{}}
	_, err := d.UploadOne(context.Background(), pendingFile("receipt.pdf"), "u1", "t1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage service not available")
}

func TestInsertLinkRow(t *testing.T) {
	d, store, meta, _ := testDriver()

	a, err := d.InsertLink(models.PendingLink{URL: "https://docs.example/policy", Category: "other", Note: "terms"}, "u1", "t1")
	require.NoError(t, err)

	require.Len(t, meta.saved, 1)
	row := meta.saved[0]
	assert.Equal(t, models.FileTypeLink, row.FileType)
	assert.Equal(t, int64(0), row.FileSize)
	assert.Equal(t, "https://docs.example/policy", row.FileURL)
	assert.Equal(t, "https://docs.example/policy", row.LinkURL)
	assert.Equal(t, "terms", row.Note)
	assert.Equal(t, "clean", row.ScanStatus, "no scan ever visits a link")
	assert.Equal(t, "https://docs.example/policy", a.DisplayURL)
	assert.Empty(t, store.uploaded, "links carry no stored object")
}

func TestUploadAllContinuesPastFailures(t *testing.T) {
	d, store, meta, _ := testDriver()
	store.failCall = 1 // first file fails, the batch continues

	area := staging.NewArea()
	_, warnings := area.AddFiles("s1", []staging.Incoming{
		{Name: "a.pdf", Data: []byte("aaaa")},
		{Name: "b.pdf", Data: []byte("bbbb")},
	}, "other")
	require.Empty(t, warnings)
	require.NoError(t, area.AddLink("s1", "https://docs.example/policy", "other", ""))

	tracker := NewTracker()
	results, succeeded := d.UploadAll(context.Background(), area, tracker, "s1", "u1", "t1")

	require.Len(t, results, 3)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "a.pdf")
	assert.True(t, results[1].Success)
	assert.True(t, results[2].Success)
	assert.Equal(t, 2, succeeded)

	assert.Len(t, meta.saved, 2, "one file row and one link row")

	files, links := area.Snapshot("s1")
	assert.Empty(t, files, "staging cleared only after every item was attempted")
	assert.Empty(t, links)
	_, active := tracker.Current()
	assert.False(t, active)
}

func TestUploadAllEmptySession(t *testing.T) {
	d, _, meta, _ := testDriver()
	results, succeeded := d.UploadAll(context.Background(), staging.NewArea(), NewTracker(), "s1", "u1", "t1")
	assert.Nil(t, results)
	assert.Zero(t, succeeded)
	assert.Empty(t, meta.saved)
}

func TestDeleteRemovesObjectThenRow(t *testing.T) {
	d, store, meta, _ := testDriver()

	err := d.Delete(context.Background(), models.Attachment{ID: "a1", OwnerID: "u1", FileURL: "u1/t1/x.pdf"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1/t1/x.pdf"}, store.removed)
	assert.Equal(t, []string{"a1"}, meta.deleted)
}

func TestDeleteLegacyURLDerivesPath(t *testing.T) {
	d, store, meta, _ := testDriver()

	err := d.Delete(context.Background(), models.Attachment{
		ID:      "a1",
		FileURL: "https://storage.example/travel-attachments/u1/t1/old.jpg?X-Amz-Expires=900",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1/t1/old.jpg"}, store.removed)
	assert.Equal(t, []string{"a1"}, meta.deleted)
}

func TestDeleteStorageFailureStillDeletesRow(t *testing.T) {
	d, store, meta, _ := testDriver()
	store.removeErr = errors.New("remove failed")

	err := d.Delete(context.Background(), models.Attachment{ID: "a1", FileURL: "u1/t1/x.pdf"})
	require.NoError(t, err, "object removal is best-effort")
	assert.Equal(t, []string{"a1"}, meta.deleted)
}

func TestDeleteWithoutStorageStillDeletesRow(t *testing.T) {
	meta := &fakeMeta{}
	d := &Driver{Meta: meta}

	err := d.Delete(context.Background(), models.Attachment{ID: "a1", FileURL: "u1/t1/x.pdf"})
	require.NoError(t, err, "an unavailable storage service does not block the row delete")
	assert.Equal(t, []string{"a1"}, meta.deleted)
}

func TestDeleteLinkSkipsStorage(t *testing.T) {
	d, store, meta, _ := testDriver()

	err := d.Delete(context.Background(), models.Attachment{ID: "a1", FileType: models.FileTypeLink, LinkURL: "https://docs.example"})
	require.NoError(t, err)
	assert.Empty(t, store.removed)
	assert.Equal(t, []string{"a1"}, meta.deleted)
}

func TestDeleteRowFailure(t *testing.T) {
	d, _, meta, _ := testDriver()
	meta.deleteFail = true

	err := d.Delete(context.Background(), models.Attachment{ID: "a1", FileURL: "u1/t1/x.pdf"})
	assert.Error(t, err)
}

func TestObjectName(t *testing.T) {
	at := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	name := ObjectName("user-1", "trip-9", "Receipt.PDF", at)

	require.True(t, strings.HasPrefix(name, "user-1/trip-9/"), name)
	require.True(t, strings.HasSuffix(name, ".pdf"), "extension is lowercased: %s", name)

	base := strings.TrimSuffix(strings.TrimPrefix(name, "user-1/trip-9/"), ".pdf")
	parts := strings.SplitN(base, "-", 2)
	require.Len(t, parts, 2, name)

	millis, err := strconv.ParseInt(parts[0], 10, 64)
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), millis)
	assert.Len(t, parts[1], 8)
}

func TestObjectNameUniqueSameMillisecond(t *testing.T) {
	at := time.Now()
	a := ObjectName("u", "t", "a.jpg", at)
	b := ObjectName("u", "t", "a.jpg", at)
	assert.NotEqual(t, a, b)
}

func TestObjectNameNoExtension(t *testing.T) {
	name := ObjectName("u", "t", "README", time.Now())
	assert.False(t, strings.Contains(name, "."), name)
}

func TestTracker(t *testing.T) {
	tr := NewTracker()

	_, ok := tr.Current()
	assert.False(t, ok)

	tr.Set(models.Progress{FileName: "a.jpg", Index: 1, Total: 3})
	tr.Update(40)

	p, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, "a.jpg", p.FileName)
	assert.Equal(t, 40, p.Percent)
	assert.Equal(t, 1, p.Index)
	assert.Equal(t, 3, p.Total)

	tr.Clear()
	_, ok = tr.Current()
	assert.False(t, ok)

	// Update after Clear is a no-op, not a panic.
	tr.Update(90)
	_, ok = tr.Current()
	assert.False(t, ok)
}

func TestTrackerCurrentReturnsCopy(t *testing.T) {
	tr := NewTracker()
	tr.Set(models.Progress{FileName: "b.pdf", Percent: 10})

	p, _ := tr.Current()
	p.Percent = 99

	got, _ := tr.Current()
	assert.Equal(t, 10, got.Percent)
}
