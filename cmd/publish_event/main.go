// Manual testing helper: publishes a document event on the NATS bus so a
// running coordinator's relay can be observed end to end.
//
// Usage:
//
//	go run ./cmd/publish_event -topic downloaded -doc <id> -wg <workgroup>
package main

import (
	"context"
	"flag"
	"log"

	"collab-docs-be/internal/config"
	"collab-docs-be/internal/entity"
	"collab-docs-be/pkg/events"
	pktNats "collab-docs-be/pkg/nats"
)

func main() {
	topic := flag.String("topic", "downloaded", "one of: downloaded, download-failed, saved")
	docId := flag.String("doc", "", "document id")
	workGroupId := flag.String("wg", "", "workgroup id")
	extension := flag.String("ext", "docx", "document extension")
	cause := flag.String("cause", "simulated failure", "error cause for download-failed")
	flag.Parse()

	if *docId == "" {
		log.Fatal("missing -doc")
	}

	cfg := config.Load()
	pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer pub.Close()

	doc := &entity.Document{
		Id:          *docId,
		WorkGroupId: *workGroupId,
		Extension:   *extension,
	}

	var event events.Event
	switch *topic {
	case "downloaded":
		doc.State = entity.DocumentStateDownloaded
		event = events.NewDocumentDownloaded(doc)
	case "download-failed":
		doc.State = entity.DocumentStateFailed
		event = events.NewDocumentDownloadFailed(doc, *cause)
	case "saved":
		doc.State = entity.DocumentStateDownloaded
		event = events.NewDocumentSaved(doc)
	default:
		log.Fatalf("unknown topic %q", *topic)
	}

	if err := pub.Publish(context.Background(), event); err != nil {
		log.Fatalf("Failed to publish: %v", err)
	}
	log.Printf("Published %s for document %s", event.EventType(), *docId)
}
