// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accelplot renders a series of accelerometer samples as a strip
// chart, one trace per axis.
package accelplot

import (
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/accel/lis3x"
)

// Opts controls the chart.
type Opts struct {
	Width, Height int
	// FullScale is the top of the Y axis; the bottom is -FullScale.
	FullScale lis3x.Acceleration
	// Interval between two samples, used to label the time axis.
	Interval time.Duration
	Title    string
}

// DefaultOpts is a 800x400 chart.
var DefaultOpts = Opts{
	Width:     800,
	Height:    400,
	FullScale: 100 * lis3x.StandardGravity,
	Interval:  20 * time.Millisecond,
}

const margin = 40.0

var traceColors = [3][3]float64{
	{0.85, 0.15, 0.15}, // X
	{0.15, 0.65, 0.15}, // Y
	{0.15, 0.30, 0.85}, // Z
}

// Render draws samples.
func Render(samples []lis3x.Sample, o *Opts) (image.Image, error) {
	if o == nil {
		o = &DefaultOpts
	}
	if o.Width <= 2*margin || o.Height <= 2*margin {
		return nil, fmt.Errorf("accelplot: %dx%d is too small", o.Width, o.Height)
	}
	if o.FullScale <= 0 {
		return nil, errors.New("accelplot: full scale must be positive")
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{Size: 12})
	defer face.Close()

	w, h := float64(o.Width), float64(o.Height)
	dc := gg.NewContext(o.Width, o.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(face)

	// Frame, zero line and labels.
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawRectangle(margin, margin, w-2*margin, h-2*margin)
	dc.Stroke()
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.DrawLine(margin, h/2, w-margin, h/2)
	dc.Stroke()
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(o.FullScale.String(), margin-4, margin, 1, 0.5)
	dc.DrawStringAnchored((-o.FullScale).String(), margin-4, h-margin, 1, 0.5)
	dc.DrawStringAnchored("0", margin-4, h/2, 1, 0.5)
	if o.Title != "" {
		dc.DrawStringAnchored(o.Title, w/2, margin/2, 0.5, 0.5)
	}
	if o.Interval > 0 && len(samples) > 1 {
		span := o.Interval * time.Duration(len(samples)-1)
		dc.DrawStringAnchored(span.String(), w-margin, h-margin/2, 1, 0.5)
	}

	if len(samples) == 0 {
		return dc.Image(), nil
	}
	step := (w - 2*margin) / float64(max(len(samples)-1, 1))
	y := func(a lis3x.Acceleration) float64 {
		v := float64(a) / float64(o.FullScale)
		v = min(max(v, -1), 1)
		return h/2 - v*(h/2-margin)
	}
	for axis, c := range traceColors {
		dc.SetRGB(c[0], c[1], c[2])
		dc.SetLineWidth(1.5)
		for i, s := range samples {
			v := [3]lis3x.Acceleration{s.X, s.Y, s.Z}[axis]
			x := margin + float64(i)*step
			if i == 0 {
				dc.MoveTo(x, y(v))
			} else {
				dc.LineTo(x, y(v))
			}
		}
		dc.Stroke()
		dc.DrawString(string("XYZ"[axis]), w-margin+8, margin+float64(axis+1)*16)
	}
	return dc.Image(), nil
}

// WritePNG renders samples and encodes them as PNG to w.
func WritePNG(w io.Writer, samples []lis3x.Sample, o *Opts) error {
	img, err := Render(samples, o)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	return dc.EncodePNG(w)
}
