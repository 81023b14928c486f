package express

// GenesisAccount is the multi-signature account of the consensus nodes.
const GenesisAccount = "genesis"

// AccountRegistry holds the default address of every wallet in a neo-express
// config. It is not modified after NewAccountRegistry returns.
type AccountRegistry struct {
	nameToAddress map[string]string
}

// NewAccountRegistry indexes the default account of every wallet in cfg.
// A nil config gives an empty registry.
func NewAccountRegistry(cfg *Config) *AccountRegistry {
	registry := &AccountRegistry{nameToAddress: make(map[string]string)}
	if cfg == nil {
		return registry
	}

	for _, wallet := range cfg.Wallets {
		registry.add(wallet.Name, wallet)
	}

	// all consensus nodes share the genesis multi-sig account; it is the one
	// carrying a label in the node wallet
	for _, node := range cfg.ConsensusNodes {
		for _, account := range node.Wallet.Accounts {
			if account.Label == "Consensus MultiSigContract" {
				registry.nameToAddress[GenesisAccount] = account.ScriptHash
			}
		}
	}
	return registry
}

func (r *AccountRegistry) add(name string, wallet Wallet) {
	account, ok := wallet.DefaultAccount()
	if !ok || account.ScriptHash == "" {
		return
	}
	r.nameToAddress[name] = account.ScriptHash
}

// Addresses returns a copy of the name to address mapping.
func (r *AccountRegistry) Addresses() map[string]string {
	out := make(map[string]string, len(r.nameToAddress))
	for name, addr := range r.nameToAddress {
		out[name] = addr
	}
	return out
}
