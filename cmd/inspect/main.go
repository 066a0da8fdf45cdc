package main

import (
	"chatbot/repositories"
	"chatbot/session"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"data/badger"`
	// INSPECT_COLOURS highlights empty directory markers
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Config error: ", err)
	}
	dbPath := flag.String("db", config.BadgerFilepath, "Path to badger DB")
	collection := flag.String("collection", "", "Only list this collection")
	flag.Parse()

	// Read-only so the bot can keep running
	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Collection", "Filename", "Size"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	prefix := []byte(repositories.SessionKeyPrefix)
	if *collection != "" {
		prefix = []byte(repositories.SessionKeyPrefix + *collection + ":")
	}

	var count int
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			name, filename, ok := repositories.ParseSessionKey(item.Key())
			if !ok {
				fmt.Printf("Skipping malformed key %q\n", string(item.Key()))
				continue
			}
			size := base64.StdEncoding.DecodedLen(int(item.ValueSize()))
			if strings.HasSuffix(filename, session.EmptyDirMarker) && config.Colours {
				filename = color.Gray.Sprint(filename)
			}
			table.Append([]string{name, filename, fmt.Sprintf("%d", size)})
			count++
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	color.Green.Printf("%d session records\n", count)
}
