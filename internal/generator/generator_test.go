package generator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/promarceloborges/Ecolesson/internal/export/text"
	"github.com/promarceloborges/Ecolesson/internal/stream"
	"github.com/promarceloborges/Ecolesson/internal/test"
	"github.com/promarceloborges/Ecolesson/pkg/lessonplan"
	"github.com/promarceloborges/Ecolesson/pkg/providers"
	"github.com/promarceloborges/Ecolesson/pkg/providers/replay"
)

func TestGenerateEndToEnd(t *testing.T) {
	body := "```json\n" + test.SamplePlanJSON(t) + "\n```"
	gen := New(replay.FromText(body, 17), WithLogger(zap.NewNop()))

	var progress []stream.Progress
	resp, err := gen.Generate(context.Background(), test.SampleRequest(), func(_ string, p stream.Progress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)
	assert.Equal(t, test.SamplePlan(), resp)

	require.NotEmpty(t, progress)
	last := -1
	for i, p := range progress {
		assert.GreaterOrEqual(t, p.Percent, last)
		last = p.Percent
		if i < len(progress)-1 {
			assert.LessOrEqual(t, p.Percent, 99)
			assert.False(t, p.Done)
		}
	}
	final := progress[len(progress)-1]
	assert.Equal(t, 100, final.Percent)
	assert.True(t, final.Done)

	out := text.NewRenderer().String(resp)
	assert.Contains(t, out, "Duração: 50 min | Aulas: 1")
	assert.Empty(t, gen.CurrentRequest())
}

func TestGenerateRejectsInvalidRequest(t *testing.T) {
	src := new(test.MockSource)
	src.On("Name").Return("mock")
	gen := New(src)

	req := test.SampleRequest()
	req.LessonDurationMin = 0
	_, err := gen.Generate(context.Background(), req, nil)
	require.Error(t, err)
	src.AssertNotCalled(t, "Stream", mock.Anything, mock.Anything)
}

func TestGenerateTransportFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"safety", errors.New("blocked: candidate 0: SAFETY"), lessonplan.CodeSafetyBlocked},
		{"rate limit", errors.New("googleapi: Error 429: Resource has been exhausted"), lessonplan.CodeRateLimited},
		{"generic", errors.New("connection reset by peer"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := new(test.MockSource)
			src.On("Name").Return("mock")
			src.On("Stream", mock.Anything, mock.Anything).
				Return(test.FragmentChannel([]string{`{"meta":{}`}, tt.err), nil)

			var seen []stream.Progress
			resp, err := New(src).Generate(context.Background(), test.SampleRequest(), func(_ string, p stream.Progress) {
				seen = append(seen, p)
			})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, lessonplan.IsKind(err, lessonplan.KindTransport))

			var perr *lessonplan.Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.code, perr.Code)
			for _, p := range seen {
				assert.False(t, p.Done)
			}
		})
	}
}

func TestGenerateOpenFailure(t *testing.T) {
	src := new(test.MockSource)
	src.On("Name").Return("mock")
	src.On("Stream", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: 429 Too Many Requests"))

	_, err := New(src).Generate(context.Background(), test.SampleRequest(), nil)
	require.Error(t, err)
	assert.True(t, lessonplan.IsKind(err, lessonplan.KindTransport))
}

func TestGenerateMalformed(t *testing.T) {
	src := replay.New([]string{"```json\n", `{"meta": {}, "plano_aula": {"titulo": "x"`})
	resp, err := New(src).Generate(context.Background(), test.SampleRequest(), nil)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, lessonplan.IsKind(err, lessonplan.KindMalformedResponse))
}

// blockingSource 第一次调用一直阻塞到被取消，之后的调用回放完整计划
type blockingSource struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	body    string
}

func (s *blockingSource) Name() string { return "blocking" }

func (s *blockingSource) Stream(ctx context.Context, req *lessonplan.Request) (<-chan providers.Fragment, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if !first {
		return replay.FromText(s.body, 64).Stream(ctx, req)
	}

	out := make(chan providers.Fragment)
	go func() {
		defer close(out)
		if !providers.SendFragment(ctx, out, providers.Fragment{Text: `{"meta":`}) {
			return
		}
		close(s.started)
		<-ctx.Done()
	}()
	return out, nil
}

func TestGenerateSupersedes(t *testing.T) {
	src := &blockingSource{started: make(chan struct{}), body: test.SamplePlanJSON(t)}
	gen := New(src)

	var (
		mu       sync.Mutex
		firstID  string
		staleIDs int
	)
	firstDone := make(chan error, 1)
	go func() {
		_, err := gen.Generate(context.Background(), test.SampleRequest(), func(id string, _ stream.Progress) {
			mu.Lock()
			defer mu.Unlock()
			if firstID == "" {
				firstID = id
			}
		})
		firstDone <- err
	}()

	select {
	case <-src.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first request never started")
	}

	resp, err := gen.Generate(context.Background(), test.SampleRequest(), func(id string, _ stream.Progress) {
		mu.Lock()
		defer mu.Unlock()
		if id == firstID {
			staleIDs++
		}
	})
	require.NoError(t, err)
	assert.Equal(t, "Fotossíntese: a energia das plantas", resp.Plan.Title)

	select {
	case err := <-firstDone:
		assert.ErrorIs(t, err, lessonplan.ErrSuperseded)
		assert.Equal(t, "A geração foi substituída por uma nova solicitação.", lessonplan.UserMessage(err))
	case <-time.After(5 * time.Second):
		t.Fatal("first request was not cancelled")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, firstID)
	assert.Zero(t, staleIDs)
}

func TestCancel(t *testing.T) {
	src := &blockingSource{started: make(chan struct{})}
	gen := New(src)

	done := make(chan error, 1)
	go func() {
		_, err := gen.Generate(context.Background(), test.SampleRequest(), nil)
		done <- err
	}()
	<-src.started
	assert.NotEmpty(t, gen.CurrentRequest())

	gen.Cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, lessonplan.ErrCancelled)
		assert.NotErrorIs(t, err, lessonplan.ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("cancel did not stop the request")
	}
	assert.Empty(t, gen.CurrentRequest())
}

func TestGenerateCallerCancellation(t *testing.T) {
	src := &blockingSource{started: make(chan struct{})}
	gen := New(src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := gen.Generate(ctx, test.SampleRequest(), nil)
		done <- err
	}()
	<-src.started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, lessonplan.ErrCancelled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, lessonplan.ErrSuperseded)
		assert.Equal(t, "A geração foi cancelada.", lessonplan.UserMessage(err))
	case <-time.After(5 * time.Second):
		t.Fatal("caller cancellation did not stop the request")
	}
	assert.Empty(t, gen.CurrentRequest())
}

func TestSupersedeWaitsForRunningProgressCallback(t *testing.T) {
	gen := New(replay.FromText(test.SamplePlanJSON(t), 64))

	entered := make(chan string, 1)
	release := make(chan struct{})
	var (
		once       sync.Once
		mu         sync.Mutex
		secondSeen bool
		staleAfter int
	)
	firstDone := make(chan error, 1)
	go func() {
		_, err := gen.Generate(context.Background(), test.SampleRequest(), func(id string, _ stream.Progress) {
			once.Do(func() {
				entered <- id
				<-release
			})
			mu.Lock()
			defer mu.Unlock()
			if secondSeen {
				staleAfter++
			}
		})
		firstDone <- err
	}()

	var firstID string
	select {
	case firstID = <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first request never reported progress")
	}

	secondDone := make(chan error, 1)
	go func() {
		_, err := gen.Generate(context.Background(), test.SampleRequest(), func(string, stream.Progress) {
			mu.Lock()
			defer mu.Unlock()
			secondSeen = true
		})
		secondDone <- err
	}()

	// 第一个请求的回调仍在执行，新请求还不能开始
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, firstID, gen.CurrentRequest())

	close(release)
	select {
	case err := <-secondDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("second request did not finish")
	}
	select {
	case err := <-firstDone:
		assert.ErrorIs(t, err, lessonplan.ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("first request was not superseded")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, staleAfter)
}
