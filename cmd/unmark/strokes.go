package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/unmark/internal/geom"
	"github.com/example/unmark/internal/mask"
)

// strokeEntry is one stroke in a stroke file. JSON is valid YAML so the same
// decoder reads both.
type strokeEntry struct {
	Size   float64      `yaml:"size"`
	Points [][]float64 `yaml:"points"`
}

func parseStrokes(data []byte) ([]mask.Stroke, error) {
	var entries []strokeEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	strokes := make([]mask.Stroke, 0, len(entries))
	for i, e := range entries {
		if e.Size <= 0 {
			return nil, fmt.Errorf("stroke %d: size must be positive", i)
		}
		if len(e.Points) == 0 {
			return nil, fmt.Errorf("stroke %d: no points", i)
		}
		s := mask.Stroke{Size: e.Size, Points: make([]geom.Point, len(e.Points))}
		for j, p := range e.Points {
			if len(p) != 2 {
				return nil, fmt.Errorf("stroke %d point %d: want [x, y]", i, j)
			}
			s.Points[j] = geom.Pt(p[0], p[1])
		}
		strokes = append(strokes, s)
	}
	return strokes, nil
}

func readStrokes(path string) ([]mask.Stroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	strokes, err := parseStrokes(data)
	if err != nil {
		return nil, fmt.Errorf("read strokes %s: %w", path, err)
	}
	return strokes, nil
}
