// Command rivulet-admin runs the local admin HTTP surface (spec §6
// expansion) over in-memory simulation gateways, so the control loop can
// be explored without a real cloud account.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/riverflow-io/riverflow/internal/admin"
	"github.com/riverflow-io/riverflow/internal/bootstrap"
	"github.com/riverflow-io/riverflow/internal/coordinator"
	"github.com/riverflow-io/riverflow/internal/invokegw"
	"github.com/riverflow-io/riverflow/internal/objectgw"
	"github.com/riverflow-io/riverflow/internal/queuegw"
	"github.com/riverflow-io/riverflow/internal/resourcemap"
	"github.com/riverflow-io/riverflow/internal/wfcore"
)

func main() {
	configPath := flag.String("config-path", "rivulet.yaml", "path to the application configuration document")
	addr := flag.String("addr", ":8080", "address to listen on")
	flag.Parse()

	components, cfg, err := bootstrap.LoadComponents(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	objBackend := objectgw.NewMemBackend()
	objgw := objectgw.New(objBackend)
	qgw := queuegw.New(queuegw.NewMemBackend())
	igw := invokegw.New(invokegw.NewMemBackend())

	const rmKey = "arnMap.json"
	rm := make(map[string]any, len(components)*2)
	for name := range components {
		rm[resourcemap.LedgerSymbol(name)] = name + "-ledger"
		if components[name].Kind == wfcore.KindFromMessage {
			rm[resourcemap.InputSymbol(name)] = name + "-input"
		}
		rm[name] = "fn-" + name
	}
	if err := objgw.PutJson(context.Background(), rmKey, rm); err != nil {
		log.Fatalf("seeding resource map: %v", err)
	}

	loader := resourcemap.New(objgw)
	coord := coordinator.New(
		loader, rmKey, "confirm.txt", components, qgw, objgw, igw,
		cfg.Coordinator.CoordinatorConcurrency,
		cfg.Coordinator.MaxApiConcurrency,
		cfg.Coordinator.MaxInvocationCount,
		time.Duration(cfg.Coordinator.MinInterval)*time.Second,
	)

	srv := admin.New(coord)
	router := srv.NewRouter()

	fmt.Fprintf(os.Stdout, "rivulet-admin listening on %s\n", *addr)
	if err := router.Run(*addr); err != nil {
		log.Fatal(err)
	}
}
