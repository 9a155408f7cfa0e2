// Copyright (c) 2013 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dot parses a small dot-like grammar directly into a
// transducer.Machine, so worked examples and fuzz seeds can be authored as
// plain text instead of Go builder calls.
//
// gographviz (code.google.com/p/gographviz), the obvious choice for a full
// DOT grammar, wraps a Google Code host that has been shut down since 2016
// and can no longer be fetched by any module proxy. This package instead
// implements a small text grammar targeting transducer.Machine directly,
// scoped to exactly what machine fixtures need:
//
//	digraph M {
//	  start = A;
//	  A [end=false];
//	  B [end=true];
//	  A -> B [in=0, out=Z];
//	  A -> A [in=1, out=Y];
//	  A -> B [null=true];
//	}
package dot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mingnet/dnastore/alphabet"
	"github.com/mingnet/dnastore/transducer"
)

var (
	stateLineRE = regexp.MustCompile(`^(\w+)\s*(?:\[(.*)\])?;?$`)
	edgeLineRE  = regexp.MustCompile(`^(\w+)\s*->\s*(\w+)\s*(?:\[(.*)\])?;?$`)
	startLineRE = regexp.MustCompile(`^start\s*=\s*(\w+);?$`)
)

// Parse reads dot-like source and builds a transducer.Machine.
func Parse(src string) (*transducer.Machine, error) {
	b := transducer.NewBuilder()
	states := map[string]transducer.StateIdx{}
	var startName string

	type pendingEdge struct {
		from, to string
		attrs    map[string]string
	}
	var edges []pendingEdge

	ensureState := func(name string, attrs map[string]string) error {
		if _, ok := states[name]; ok {
			return nil
		}
		isEnd := attrs["end"] == "true"
		idx, err := b.AddState(name, isEnd)
		if err != nil {
			return err
		}
		states[name] = idx
		return nil
	}

	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "digraph") && strings.HasSuffix(line, "{") {
			// Graph header ("digraph M {"): the graph name is not a state.
			continue
		}
		if line == "" || line == "{" || line == "}" || strings.HasPrefix(line, "//") {
			continue
		}
		line = strings.TrimSuffix(line, "{")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := startLineRE.FindStringSubmatch(line); m != nil {
			startName = m[1]
			continue
		}
		if m := edgeLineRE.FindStringSubmatch(line); m != nil {
			edges = append(edges, pendingEdge{from: m[1], to: m[2], attrs: parseAttrs(m[3])})
			continue
		}
		if m := stateLineRE.FindStringSubmatch(line); m != nil {
			if err := ensureState(m[1], parseAttrs(m[2])); err != nil {
				return nil, err
			}
			continue
		}
		return nil, fmt.Errorf("dot: could not parse line %q", line)
	}

	for _, e := range edges {
		if err := ensureState(e.from, nil); err != nil {
			return nil, err
		}
		if err := ensureState(e.to, nil); err != nil {
			return nil, err
		}
	}

	if startName == "" {
		return nil, fmt.Errorf("dot: missing start declaration")
	}
	startIdx, ok := states[startName]
	if !ok {
		return nil, fmt.Errorf("dot: start state %q never declared", startName)
	}
	if err := b.SetStart(startIdx); err != nil {
		return nil, err
	}

	for _, e := range edges {
		in := alphabet.Null
		out := alphabet.NoBase
		if v, ok := e.attrs["in"]; ok {
			sym, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("dot: bad in= value %q: %w", v, err)
			}
			if sym == 0 {
				in = alphabet.Bit0
			} else {
				in = alphabet.Bit1
			}
		}
		if v, ok := e.attrs["out"]; ok && v != "" {
			out = v[0]
		}
		if err := b.AddTransition(states[e.from], states[e.to], in, out); err != nil {
			return nil, err
		}
	}

	return b.Finalize()
}

func parseAttrs(s string) map[string]string {
	attrs := map[string]string{}
	if strings.TrimSpace(s) == "" {
		return attrs
	}
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		attrs[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return attrs
}
