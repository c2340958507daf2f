package main

import (
	"fmt"
	"os"

	gen "github.com/whyrusleeping/cbor-gen"

	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

// State and Address are encoded by hand; the generator handles neither
// ordered maps nor fixed width byte arrays the way the registry needs.
func main() {
	err := gen.WriteTupleEncodersToFile("./chain/types/cbor_gen.go", "types",
		types.Message{},
		types.MessageReceipt{},
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	err = gen.WriteTupleEncodersToFile("./chain/actors/builtin/didregistry/cbor_gen.go", "didregistry",
		didregistry.DIDParams{},
		didregistry.SetAttributeParams{},
		didregistry.ChangeOwnerParams{},
		didregistry.AddDelegateParams{},
		didregistry.GetAttributeReturn{},
	)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
