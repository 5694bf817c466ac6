package diagnostics

import (
	"bytes"
	"log"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPublishDoesNotBlockWithoutAReader(t *testing.T) {
	Convey("Publish never blocks even when nothing drains the feed", t, func() {
		var buf bytes.Buffer
		s := NewServer(":0", log.New(&buf, "", 0))
		for i := 0; i < 5; i++ {
			s.Publish(Snapshot{Tick: i})
		}
		// If Publish blocked, this test would hang rather than reach here.
		So(true, ShouldBeTrue)
	})
}

func TestRecordTurnMillis(t *testing.T) {
	Convey("RecordTurnMillis seeds the gauge on the first call", t, func() {
		var buf bytes.Buffer
		s := NewServer(":0", log.New(&buf, "", 0))
		s.RecordTurnMillis(42)
		So(s.MeanTurnMillis.AtomicRead(), ShouldEqual, float64(42))
	})

	Convey("RecordTurnMillis smooths toward new values without jumping to them", t, func() {
		var buf bytes.Buffer
		s := NewServer(":0", log.New(&buf, "", 0))
		s.RecordTurnMillis(10)
		s.RecordTurnMillis(20)
		v := s.MeanTurnMillis.AtomicRead()
		So(v, ShouldBeGreaterThan, 10.0)
		So(v, ShouldBeLessThan, 20.0)
	})
}
