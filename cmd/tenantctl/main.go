package main

import (
	"context"
	"log"
	"os"

	_ "github.com/viant/scy/kms/blowfish"
	"github.com/viant/tenantadmin/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}
