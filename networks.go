// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package near

// Network definitions
var (
	NetworkMainnet = Network{
		Name:           "mainnet",
		ChainId:        "mainnet",
		NodeUrl:        "https://rpc.mainnet.near.org",
		WalletUrl:      "https://wallet.near.org",
		HelperUrl:      "https://helper.mainnet.near.org",
		ExplorerUrl:    "https://explorer.near.org",
		PythContractId: "pyth-oracle.near",
	}
	NetworkTestnet = Network{
		Name:           "testnet",
		ChainId:        "testnet",
		NodeUrl:        "https://rpc.testnet.near.org",
		WalletUrl:      "https://wallet.testnet.near.org",
		HelperUrl:      "https://helper.testnet.near.org",
		ExplorerUrl:    "https://explorer.testnet.near.org",
		PythContractId: "pyth.testnet",
	}
	NetworkLocalnet = Network{
		Name:    "localnet",
		ChainId: "localnet",
		NodeUrl: "http://localhost:3030",
	}

	NetworkInvalid = Network{
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkMainnet,
	NetworkTestnet,
	NetworkLocalnet,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByChainId returns a predefined network by the chain ID reported by its nodes
func NetworkByChainId(chainId string) Network {
	for _, network := range networks {
		if network.ChainId == chainId {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents a NEAR network
type Network struct {
	Name           string
	ChainId        string // chain ID reported by the node status
	NodeUrl        string
	WalletUrl      string
	HelperUrl      string
	ExplorerUrl    string
	PythContractId string // account of the Pyth price oracle, if deployed
}

func (n Network) String() string {
	return n.Name
}
