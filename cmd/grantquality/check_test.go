package main

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ukaji3/grantquality-go/pkg/grantquality"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/checks"
	"github.com/ukaji3/grantquality-go/pkg/grantquality/config"
)

func TestCheckFlagsTestClasses(t *testing.T) {
	cfg = &config.Config{TestClasses: []string{"quality_accuracy", "usefulness"}}
	t.Cleanup(func() { cfg = nil })

	tests := []struct {
		name     string
		flags    checkFlags
		expected []checks.Class
	}{
		{"configured", checkFlags{}, []checks.Class{checks.QualityAccuracy, checks.Usefulness}},
		{"quality only", checkFlags{quality: true}, []checks.Class{checks.QualityAccuracy}},
		{"usefulness only", checkFlags{usefulness: true}, []checks.Class{checks.Usefulness}},
		{"fields added", checkFlags{fields: true}, []checks.Class{checks.QualityAccuracy, checks.Usefulness, checks.FieldPresence}},
		{"quality and fields", checkFlags{quality: true, fields: true}, []checks.Class{checks.QualityAccuracy, checks.FieldPresence}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.testClasses()
			if err != nil {
				t.Fatalf("testClasses() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("testClasses() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCheckFlagsUnknownConfiguredClass(t *testing.T) {
	cfg = &config.Config{TestClasses: []string{"usefulness", "speed"}}
	t.Cleanup(func() { cfg = nil })

	f := checkFlags{}
	if _, err := f.testClasses(); !errors.Is(err, grantquality.ErrUnknownTestClass) {
		t.Errorf("testClasses() error = %v, expected ErrUnknownTestClass", err)
	}
}

func TestCheckFlagsFileType(t *testing.T) {
	tests := []struct {
		flags    checkFlags
		expected grantquality.FileType
	}{
		{checkFlags{}, grantquality.FileTypeJSON},
		{checkFlags{workbook: "grants.xlsx"}, grantquality.FileTypeXLSX},
		{checkFlags{fileType: "CSV"}, grantquality.FileTypeCSV},
		{checkFlags{fileType: "json", workbook: "grants.xlsx"}, grantquality.FileTypeJSON},
	}
	for _, tt := range tests {
		got, err := tt.flags.resolveFileType()
		if err != nil {
			t.Errorf("resolveFileType(%+v) error: %v", tt.flags, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("resolveFileType(%+v) = %q, expected %q", tt.flags, got, tt.expected)
		}
	}

	f := checkFlags{fileType: "ods"}
	if _, err := f.resolveFileType(); err == nil {
		t.Error("resolveFileType() accepted ods")
	}
}
