package logger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/okian/mmolbparse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the process logger", t, func() {
		So(logger.Init(), ShouldBeNil)
		defer func() { So(logger.Sync(), ShouldBeNil) }()

		Convey("Then Get and Named return usable loggers", func() {
			So(logger.Get(), ShouldNotBeNil)
			named := logger.Named("test")
			So(named, ShouldNotBeNil)
			named.Info(context.Background(), "test message", logger.String("k", "v"))
		})

		Convey("Then level strings are validated", func() {
			So(logger.SetLevelString("warning"), ShouldBeNil)
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a text logger at warn level", t, func() {
		var buf bytes.Buffer
		log := logger.New(&buf, slog.LevelWarn).Named("game")
		ctx := context.Background()

		Convey("When logging below and at the level", func() {
			log.Info(ctx, "quiet")
			log.Error(ctx, "parse error", logger.String("rule", "Pitch"), logger.Error(errors.New("boom")))

			Convey("Then only the error record is written with its fields", func() {
				out := buf.String()
				So(out, ShouldNotContainSubstring, "quiet")
				So(out, ShouldContainSubstring, "parse error")
				So(out, ShouldContainSubstring, "rule=Pitch")
				So(out, ShouldContainSubstring, "component=game")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "source=")
			})
		})
	})

	Convey("Given a discard logger", t, func() {
		log := logger.NewDiscard()

		Convey("Then logging is a no-op", func() {
			So(func() { log.Error(context.Background(), "nothing") }, ShouldNotPanic)
		})
	})
}
