package model

import (
	"fmt"
	"sort"
	"strings"
)

// Network describes a supported ledger network.
type Network struct {
	Name    string
	ChainID uint64
	// CreationBlock is the block where the anchor contract became active; zero when unknown.
	CreationBlock uint64
}

// Public reports whether the network is a shared chain.
func (n Network) Public() bool {
	return n.ChainID != 0
}

var networks = map[string]Network{
	"mainnet": {Name: "mainnet", ChainID: 1},
	"goerli":  {Name: "goerli", ChainID: 5},
	"sepolia": {Name: "sepolia", ChainID: 11155111},
	"private": {Name: "private"},
}

// LookupNetwork returns the network registered under name.
func LookupNetwork(name string) (Network, error) {
	n, ok := networks[strings.ToLower(name)]
	if !ok {
		return Network{}, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownNetwork, name, strings.Join(NetworkNames(), ", "))
	}
	return n, nil
}

// NetworkNames lists supported network names in alphabetical order.
func NetworkNames() []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
