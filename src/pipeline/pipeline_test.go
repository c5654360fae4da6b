package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

type recordingStage struct {
	name string
	log  *[]string
	fail error
}

func (s *recordingStage) Name() string { return s.name }

func (s *recordingStage) Apply(ctx context.Context, df dataframe.DataFrame) (dataframe.DataFrame, error) {
	*s.log = append(*s.log, s.name)
	if s.fail != nil {
		return df, s.fail
	}
	// Tag the frame so ordering is observable in the output too.
	return df.Mutate(series.New([]string{s.name}, series.String, s.name)), nil
}

func testFrame() dataframe.DataFrame {
	return dataframe.LoadRecords([][]string{
		{"A"},
		{"1"},
	})
}

func TestPipelineRunsStagesInOrder(t *testing.T) {
	var log []string
	p := New(
		&recordingStage{name: "first", log: &log},
		&recordingStage{name: "second", log: &log},
	).Add(&recordingStage{name: "third", log: &log})

	out, err := p.Run(context.Background(), testFrame())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(log) != len(want) {
		t.Fatalf("ran %d stages, want %d", len(log), len(want))
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("stage %d was %s, want %s", i, log[i], want[i])
		}
	}
	for _, name := range want {
		found := false
		for _, col := range out.Names() {
			if col == name {
				found = true
			}
		}
		if !found {
			t.Errorf("output missing column from stage %s", name)
		}
	}
}

func TestPipelineStopsOnStageError(t *testing.T) {
	var log []string
	boom := &SchemaError{Column: "AIRLINE", Stage: "second"}
	p := New(
		&recordingStage{name: "first", log: &log},
		&recordingStage{name: "second", log: &log, fail: boom},
		&recordingStage{name: "third", log: &log},
	)

	_, err := p.Run(context.Background(), testFrame())
	if err == nil {
		t.Fatal("expected error")
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error lost its type through wrapping: %v", err)
	}
	if len(log) != 2 {
		t.Errorf("stages after the failure still ran: %v", log)
	}
}

func TestPipelineHonorsCancellation(t *testing.T) {
	var log []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(&recordingStage{name: "first", log: &log})
	_, err := p.Run(ctx, testFrame())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(log) != 0 {
		t.Errorf("stage ran after cancellation: %v", log)
	}
}

func TestErrorMessages(t *testing.T) {
	cause := fmt.Errorf("no such file")
	loadErr := &LoadError{Source: "flights.csv", Err: cause}
	if !errors.Is(loadErr, cause) {
		t.Error("LoadError does not unwrap its cause")
	}

	valueErr := &ValueError{Column: "SCHEDULED_DEPARTURE", Row: 7, Value: "9999", Reason: "yields no hour in [0,23]"}
	if valueErr.Error() == "" {
		t.Error("empty ValueError message")
	}
}
