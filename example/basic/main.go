package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/chunkcompare"
	"github.com/siherrmann/chunkcompare/helper"
)

func main() {
	// Start a local search container with a trial license
	teardown, settings, err := helper.MustStartElasticsearchContainer()
	if err != nil {
		log.Fatalf("Failed to start search container: %v", err)
	}
	defer teardown(context.Background())

	config := &helper.ServiceConfiguration{
		Host:            settings.Address,
		Username:        settings.Username,
		Password:        settings.Password,
		CACert:          settings.CACert,
		Index:           helper.DefaultIndexName,
		RequestTimeout:  helper.DefaultRequestTimeout,
		ElserModelID:    helper.DefaultElserModelID,
		WikipediaAPIURL: helper.DefaultWikipediaAPIURL,
		LogLevel:        "info",
	}

	c, err := chunkcompare.NewChunkCompare(config, nil)
	if err != nil {
		log.Fatalf("Failed to create chunkcompare: %v", err)
	}

	// A few countries are enough to see the difference between the strategies
	ctx := context.Background()
	uploaded, err := c.Provision(ctx, []string{"Panama", "Canada", "Brazil", "Peru"})
	if err != nil {
		log.Fatalf("Failed to provision: %v", err)
	}
	fmt.Printf("Uploaded %d articles\n\n", uploaded)

	if err := c.RunDemo(ctx, os.Stdout, []string{"canal", "hockey", "coffee production"}); err != nil {
		log.Fatalf("Failed to run demo: %v", err)
	}

	fmt.Println("\nBasic example completed successfully!")
}
