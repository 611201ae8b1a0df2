// Package main is a headless Loom demo. It mounts a small animated
// composition against a logging scene backend and drives sixty frames,
// printing every host mutation, which makes the frame pipeline easy to
// watch without a real engine attached.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/go-loom/loom/pkg/animation"
	"github.com/go-loom/loom/pkg/core"
	"github.com/go-loom/loom/pkg/diag"
	"github.com/go-loom/loom/pkg/geometry"
	"github.com/go-loom/loom/pkg/layout"
	"github.com/go-loom/loom/pkg/scene"
	"github.com/go-loom/loom/pkg/theme"
)

// logBackend prints scene mutations instead of drawing them.
type logBackend struct {
	log  *zap.Logger
	next int
}

type logObject struct {
	log  *zap.Logger
	name string
}

func (b *logBackend) Create(kind scene.ObjectKind) (scene.Object, error) {
	b.next++
	name := fmt.Sprintf("%s#%d", kind, b.next)
	b.log.Info("create", zap.String("object", name))
	return &logObject{log: b.log, name: name}, nil
}

func (o *logObject) Apply(p scene.Patch) {
	fields := []zap.Field{zap.String("object", o.name)}
	if p.Frame != nil {
		fields = append(fields, zap.Any("frame", *p.Frame))
	}
	if p.Hidden != nil {
		fields = append(fields, zap.Bool("hidden", *p.Hidden))
	}
	if p.Text != nil {
		fields = append(fields, zap.String("text", *p.Text))
	}
	if p.Color != nil {
		fields = append(fields, zap.Uint32("color", *p.Color))
	}
	o.log.Info("apply", fields...)
}

func (o *logObject) Destroy() {
	o.log.Info("destroy", zap.String("object", o.name))
}

// slider animates a bar's width with a gentle spring while a counter
// tracks the frames it has seen.
func slider(ctx *core.BuildContext) core.Node {
	core.UseFrameTick(ctx)
	frames := core.UseRef(ctx, 0)
	width := core.UseSpring(ctx, animation.Gentle(), 40)

	core.UseEffect(ctx, func() func() {
		width.SetTarget(360)
		return nil
	}, []any{})
	frames.Current++

	return core.Box(core.BoxProps{Width: layout.Fill(), Height: layout.Fill(), Flow: layout.Column, Gap: 12, Padding: layout.UniformInsets(16)},
		core.Text(core.TextProps{Content: fmt.Sprintf("frame %d", frames.Current)}),
		core.Box(core.BoxProps{Width: layout.Px(width.Value()), Height: layout.Px(24), Color: "color.accent"}),
	)
}

func main() {
	zlog, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	diagOpts, err := diag.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	opts := core.Options{
		Theme:       theme.NewDefaultRegistry(),
		Diagnostics: &diagOpts,
		Logger:      zlog,
		Viewport:    geometry.Size{Width: 480, Height: 320},
	}
	if path := os.Getenv("LOOM_THEME"); path != "" {
		th, err := theme.LoadFile(path)
		if err != nil {
			log.Fatal(err)
		}
		opts.Theme = theme.NewRegistry(th)
	}

	rt := core.NewRuntime(&logBackend{log: zlog.Named("scene")}, opts)
	handle, err := rt.Mount(slider, nil)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < 60; i++ {
		if err := rt.Frame(16 * time.Millisecond); err != nil {
			zlog.Warn("frame error", zap.Error(err))
		}
	}
	handle.Unmount()
}
