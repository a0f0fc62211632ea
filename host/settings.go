// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"
	"github.com/beevik/steprules/rules"
)

type settings struct {
	Source    string `doc:"instruction table named in the output header"`
	Label     string `doc:"label of the generated rule table"`
	Symbol    string `doc:"symbol selecting the 65C02 table"`
	Directive string `doc:"byte data directive"`
	PerLine   int    `doc:"number of values per data line"`
	Verbose   bool   `doc:"dump instruction tables as they are loaded"`
	CMOS      bool   `doc:"plant step breakpoints using 65C02 rules"`
}

func newSettings() *settings {
	f := rules.DefaultFormat()
	return &settings{
		Source:    f.Source,
		Label:     f.Label,
		Symbol:    f.Symbol,
		Directive: f.Directive,
		PerLine:   f.PerLine,
		Verbose:   false,
		CMOS:      true,
	}
}

// Format returns the output format described by the settings.
func (s *settings) Format() rules.Format {
	return rules.Format{
		Source:    s.Source,
		Label:     s.Label,
		Symbol:    s.Symbol,
		Directive: s.Directive,
		PerLine:   s.PerLine,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

func (s *settings) Display(w io.Writer) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var s string
		switch f.kind {
		case reflect.String:
			s = fmt.Sprintf("    %-16s \"%s\"", f.name, v.String())
		default:
			s = fmt.Sprintf("    %-16s %v", f.name, v)
		}
		fmt.Fprintf(w, "%-40s (%s)\n", s, f.doc)
	}
}

func (s *settings) Kind(key string) reflect.Kind {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return reflect.Invalid
	}
	return f.kind
}

func (s *settings) Set(key string, value any) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}

	vIn := reflect.ValueOf(value)
	if (f.kind == reflect.String && vIn.Type().Kind() != reflect.String) ||
		(f.kind != reflect.String && vIn.Type().Kind() == reflect.String) ||
		!vIn.Type().ConvertibleTo(f.typ) {
		return errors.New("invalid type")
	}
	vInConverted := vIn.Convert(f.typ)

	if f.name == "PerLine" && vInConverted.Int() <= 0 {
		return errors.New("value must be positive")
	}

	vOut := reflect.ValueOf(s).Elem().Field(f.index)
	vOut.Set(vInConverted)

	return nil
}
