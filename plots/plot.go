// Package plots renders the pipeline figures to standalone HTML with
// plotly: hour histogram, crash maps and the zip choropleth.
package plots

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"os/exec"
	"strings"
	"time"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/MetalBlueberry/go-plotly/offline"
)

type Plot struct {
	Fig *grob.Fig
	Lay *grob.Layout
}

type Opt func(plot *Plot) *Plot

func NewPlot(opt ...Opt) *Plot {
	fig := &grob.Fig{}
	lay := &grob.Layout{}
	fig.Layout = lay
	p := &Plot{Fig: fig, Lay: lay}
	for _, o := range opt {
		o(p)
	}

	return p
}

func WithWidth(w float64) Opt {
	if w < 0.0 {
		panic(fmt.Errorf("negative width"))
	}
	return func(p *Plot) *Plot {
		p.Lay.Width = w
		return p
	}
}

func WithHeight(h float64) Opt {
	if h < 0.0 {
		panic(fmt.Errorf("negative height"))
	}
	return func(p *Plot) *Plot {
		p.Lay.Height = h
		return p
	}
}

func WithTitle(title string) Opt {
	return func(p *Plot) *Plot { p.Lay.Title = &grob.LayoutTitle{Text: title}; return p }
}

func WithLegend(show bool) Opt {
	return func(p *Plot) *Plot {
		if show {
			p.Lay.Showlegend = grob.True
		} else {
			p.Lay.Showlegend = grob.False
		}

		return p
	}
}

func WithXlabel(label string) Opt {
	return func(p *Plot) *Plot {
		if p.Lay.Xaxis == nil {
			p.Lay.Xaxis = &grob.LayoutXaxis{}
		}
		if p.Lay.Xaxis.Title == nil {
			p.Lay.Xaxis.Title = &grob.LayoutXaxisTitle{}
		}

		p.Lay.Xaxis.Title.Text = label
		return p
	}
}

func WithYlabel(label string) Opt {
	return func(p *Plot) *Plot {
		if p.Lay.Yaxis == nil {
			p.Lay.Yaxis = &grob.LayoutYaxis{}
		}
		if p.Lay.Yaxis.Title == nil {
			p.Lay.Yaxis.Title = &grob.LayoutYaxisTitle{}
		}

		p.Lay.Yaxis.Title.Text = label
		return p
	}
}

// ToHTML writes the figure as a standalone HTML file.
func (p *Plot) ToHTML(fileName string) {
	offline.ToHtml(p.Fig, fileName)
}

// Show writes the figure (to fileName, or a temp file if empty) and
// opens it in a browser.
func (p *Plot) Show(browser, fileName string) error {
	const nameLength = 8

	if browser == "" {
		browser = "xdg-open"
	}

	tmpFile := false
	if fileName == "" {
		fileName = tempFile("html", nameLength)
		tmpFile = true
	}

	offline.ToHtml(p.Fig, fileName)

	cmd := exec.Command(browser, fileName)
	if e := cmd.Start(); e != nil {
		return e
	}

	time.Sleep(time.Second) // need to pause while browser loads graph

	if tmpFile {
		if e := os.Remove(fileName); e != nil {
			return e
		}
	}

	return nil
}

// *********** Helpers ***********

// tempFile produces a random temp file name in the system's tmp location.
func tempFile(ext string, length int) string {
	return slash(os.TempDir()) + "tmp" + randomLetters(length) + "." + ext
}

func slash(inStr string) string {
	if strings.HasSuffix(inStr, "/") {
		return inStr
	}

	return inStr + "/"
}

// randomLetters generates a string of length "length" by randomly choosing from a-z
func randomLetters(length int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"

	var (
		randN []int64
		e     error
	)
	if randN, e = randUnifInt(length, len(letters)); e != nil {
		panic(e)
	}

	name := ""
	for ind := 0; ind < length; ind++ {
		name += letters[randN[ind] : randN[ind]+1]
	}

	return name
}

// randUnifInt generates a slice whose elements are random U[0,upper) int64's
func randUnifInt(n, upper int) ([]int64, error) {
	const bytesPerInt = 8

	b1 := make([]byte, bytesPerInt*n)
	if _, e := rand.Read(b1); e != nil {
		return nil, e
	}

	outInts := make([]int64, n)
	rdr := bytes.NewReader(b1)

	for ind := 0; ind < n; ind++ {
		r, e := rand.Int(rdr, big.NewInt(int64(upper)))
		if e != nil {
			return nil, e
		}
		outInts[ind] = r.Int64()
	}

	return outInts, nil
}
