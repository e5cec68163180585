package main

import (
	"os"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/viant/bigquery"

	"semql/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
