package export

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/internal/test"
	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
)

// fakeRenderer 可选地阻塞到 release 被关闭
type fakeRenderer struct {
	format  string
	entered chan struct{}
	release chan struct{}
	err     error

	mu    sync.Mutex
	calls int
}

func newFakeRenderer(format string) *fakeRenderer {
	return &fakeRenderer{format: format}
}

func (f *fakeRenderer) Format() string    { return f.format }
func (f *fakeRenderer) Extension() string { return f.format }

func (f *fakeRenderer) Render(ctx context.Context, resp *lessonplan.Response, w io.Writer) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.entered != nil {
		close(f.entered)
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, resp.Plan.Title)
	return err
}

func (f *fakeRenderer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"", "sem_titulo"},
		{"Fotossíntese: a energia", "fotoss_ntese__a_energia"},
		{"ABC 123", "abc_123"},
		{"já/é", "j___"},
		{"🌱 Plantas", "___plantas"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeTitle(tt.title))
		})
	}
	assert.Equal(t, "plano_de_aula_abc_123.pdf", FileName("ABC 123", "pdf"))
}

func TestExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, WithRenderer(newFakeRenderer("txt")), WithLogger(zap.NewNop()))

	plan := test.SamplePlan()
	res, err := m.Export(context.Background(), plan, "txt")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "plano_de_aula_fotoss_ntese__a_energia_das_plantas.txt"), res.Path)
	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, plan.Plan.Title, string(data))
	assert.Equal(t, State{Kind: Idle}, m.State())
}

func TestExportMutualExclusion(t *testing.T) {
	blocking := newFakeRenderer("pdf")
	blocking.entered = make(chan struct{})
	blocking.release = make(chan struct{})
	other := newFakeRenderer("txt")

	m := NewManager(t.TempDir(),
		WithRenderer(blocking),
		WithRenderer(other),
		WithPublisher(NewRemoteStub(TargetSheets, nil)))
	plan := test.SamplePlan()

	done := make(chan error, 1)
	go func() {
		_, err := m.Export(context.Background(), plan, "pdf")
		done <- err
	}()

	select {
	case <-blocking.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first export never started")
	}
	assert.Equal(t, State{Kind: Exporting, Format: "pdf"}, m.State())

	_, err := m.Export(context.Background(), plan, "txt")
	assert.ErrorIs(t, err, lessonplan.ErrExportInProgress)
	assert.Equal(t, 0, other.callCount(), "rejected export must not be queued")

	err = m.Publish(context.Background(), plan, TargetSheets)
	assert.ErrorIs(t, err, lessonplan.ErrExportInProgress)

	close(blocking.release)
	require.NoError(t, <-done)
	assert.Equal(t, State{Kind: Idle}, m.State())

	_, err = m.Export(context.Background(), plan, "txt")
	require.NoError(t, err)
	assert.Equal(t, 1, other.callCount())
}

func TestExportRenderFailure(t *testing.T) {
	dir := t.TempDir()
	r := newFakeRenderer("docx")
	r.err = errors.New("zip: write failed")
	m := NewManager(dir, WithRenderer(r))

	plan := test.SamplePlan()
	before := *plan

	_, err := m.Export(context.Background(), plan, "docx")
	require.Error(t, err)
	assert.True(t, lessonplan.IsKind(err, lessonplan.KindExport))
	assert.Equal(t, before, *plan)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, State{Kind: Idle}, m.State())
}

func TestExportKeepsPipelineErrors(t *testing.T) {
	r := newFakeRenderer("pdf")
	r.err = lessonplan.Errorf(lessonplan.KindRenderPrecondition, "missing surface")
	m := NewManager(t.TempDir(), WithRenderer(r))

	_, err := m.Export(context.Background(), test.SamplePlan(), "pdf")
	assert.True(t, lessonplan.IsKind(err, lessonplan.KindRenderPrecondition))
}

func TestExportNilPlan(t *testing.T) {
	m := NewManager(t.TempDir(), WithRenderer(newFakeRenderer("txt")))
	_, err := m.Export(context.Background(), nil, "txt")
	assert.True(t, lessonplan.IsKind(err, lessonplan.KindRenderPrecondition))
	assert.ErrorIs(t, err, lessonplan.ErrNilDocument)
}

func TestExportUnknownFormat(t *testing.T) {
	m := NewManager(t.TempDir())
	_, err := m.Export(context.Background(), test.SamplePlan(), "odt")
	assert.Error(t, err)
	assert.Equal(t, State{Kind: Idle}, m.State())
}

func TestPublishStubs(t *testing.T) {
	m := NewManager(t.TempDir(),
		WithPublisher(NewRemoteStub(TargetGoogleDocs, nil)),
		WithPublisher(NewRemoteStub(TargetSheets, zap.NewNop())))

	assert.Equal(t, []string{TargetGoogleDocs, TargetSheets}, m.Targets())
	for _, target := range m.Targets() {
		err := m.Publish(context.Background(), test.SamplePlan(), target)
		assert.ErrorIs(t, err, lessonplan.ErrBackendRequired)
		assert.Equal(t, State{Kind: Idle}, m.State())
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", State{}.String())
	assert.Equal(t, "exporting(pdf)", State{Kind: Exporting, Format: "pdf"}.String())
}
