package datainfo_test

import (
	"fmt"
	"log"

	datainfo "github.com/secop-community/datainfo-go"
	"github.com/secop-community/datainfo-go/canonicaljson"
)

func ExampleNewFloatRange() {
	dt, err := datainfo.NewFloatRange(datainfo.Props{
		"min": 0.0, "max": 100.0, "unit": "K", "fmtstr": "%.1f",
	})
	if err != nil {
		log.Fatal(err)
	}

	v, err := dt.Validate(99.7)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(dt.FormatValue(v))

	desc, _ := canonicaljson.String(dt.ExportDatatype())
	fmt.Println(desc)
	// Output:
	// 99.7 K
	// {"fmtstr":"%.1f","max":100,"min":0,"type":"double","unit":"K"}
}

func ExampleGet() {
	dt, err := datainfo.Get(map[string]any{
		"type":   "scaled",
		"scale":  0.1,
		"min":    0,
		"max":    250,
		"unit":   "A",
		"fmtstr": "%.1f",
	})
	if err != nil {
		log.Fatal(err)
	}

	v, err := dt.ImportValue(137)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(dt.FormatValue(v))
	// Output:
	// 13.7 A
}

func ExampleDataType_compatible() {
	narrow, _ := datainfo.NewIntRange(datainfo.Props{"min": 0, "max": 5})
	wide, _ := datainfo.NewIntRange(datainfo.Props{"min": -10, "max": 10})

	fmt.Println(narrow.Compatible(wide) == nil)
	fmt.Println(datainfo.IsIncompatible(wide.Compatible(narrow)))
	// Output:
	// true
	// true
}

func ExampleDataType_copy() {
	template, _ := datainfo.NewFloatRange(datainfo.Props{"unit": "$/s"})

	dt := template.Copy()
	if err := dt.SetMainUnit("mm"); err != nil {
		log.Fatal(err)
	}
	if err := dt.CheckProperties(); err != nil {
		log.Fatal(err)
	}

	fmt.Println(dt.FormatValue(2.5))
	// Output:
	// 2.5 mm/s
}
