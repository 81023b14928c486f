package express

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// Config is the subset of a .neo-express file needed to reach the network and
// list its wallets.
type Config struct {
	Magic          uint32   `json:"magic"`
	AddressVersion byte     `json:"address-version"`
	ConsensusNodes []Node   `json:"consensus-nodes"`
	Wallets        []Wallet `json:"wallets"`
}

type Node struct {
	Wallet        Wallet `json:"wallet"`
	TCPPort       int    `json:"tcp-port"`
	WebSocketPort int    `json:"ws-port"`
	RPCPort       int    `json:"rpc-port"`
}

type Wallet struct {
	Name     string    `json:"name"`
	Accounts []Account `json:"accounts"`
}

type Account struct {
	ScriptHash string `json:"script-hash"` // neo-express stores the address under this key
	Label      string `json:"label"`
	IsDefault  bool   `json:"is-default"`
}

// DefaultAccount returns the account flagged as default, or the first one.
func (w Wallet) DefaultAccount() (Account, bool) {
	for _, a := range w.Accounts {
		if a.IsDefault {
			return a, true
		}
	}
	if len(w.Accounts) > 0 {
		return w.Accounts[0], true
	}
	return Account{}, false
}

// Load reads an express config file.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading express config %s", path)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing express config %s", path)
	}
	return &cfg, nil
}

// WalletNames lists the user wallets in config order.
func (c *Config) WalletNames() []string {
	names := make([]string, 0, len(c.Wallets))
	for _, w := range c.Wallets {
		names = append(names, w.Name)
	}
	return names
}

// RPCPort returns the RPC port of the first consensus node.
func (c *Config) RPCPort() (int, error) {
	if len(c.ConsensusNodes) == 0 {
		return 0, errors.New("express config has no consensus nodes")
	}
	port := c.ConsensusNodes[0].RPCPort
	if port <= 0 {
		return 0, errors.Newf("consensus node has invalid rpc port %d", port)
	}
	return port, nil
}
