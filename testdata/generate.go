//go:build ignore

// Command generate writes people.parquet, the Parquet twin of people.csv.
package main

import (
	"log"
	"os"

	"github.com/segmentio/parquet-go"
)

type Person struct {
	Name   string   `parquet:"name"`
	Age    *int32   `parquet:"age,optional"`
	City   string   `parquet:"city"`
	Salary *float64 `parquet:"salary,optional"`
}

func ptr[T any](v T) *T { return &v }

func main() {
	people := []Person{
		{Name: "Alice", Age: ptr[int32](30), City: "NYC", Salary: ptr(85000.50)},
		{Name: "Bob", Age: ptr[int32](25), City: "LA", Salary: ptr(62000.0)},
		{Name: "Carol", Age: ptr[int32](35), City: "NYC", Salary: ptr(91000.0)},
		{Name: "Dave", City: "Boston", Salary: ptr(58000.0)},
		{Name: "Eve", Age: ptr[int32](42), City: "LA"},
		{Name: "Frank", Age: ptr[int32](28), City: "NYC", Salary: ptr(70500.25)},
	}

	file, err := os.Create("people.parquet")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Person](file)
	if _, err := writer.Write(people); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated people.parquet with %d rows", len(people))
}
