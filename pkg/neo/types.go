package neo

import "strings"

// Transaction is the verbose form returned by getrawtransaction. The block
// fields are only present once the transaction has been persisted.
type Transaction struct {
	Hash            string `json:"hash"`
	Size            int    `json:"size"`
	Version         int    `json:"version"`
	Nonce           uint32 `json:"nonce"`
	Sender          string `json:"sender"`
	SysFee          string `json:"sysfee"`
	NetFee          string `json:"netfee"`
	ValidUntilBlock uint32 `json:"validuntilblock"`
	Script          string `json:"script"`
	BlockHash       string `json:"blockhash,omitempty"`
	Confirmations   uint32 `json:"confirmations,omitempty"`
	BlockTime       uint64 `json:"blocktime,omitempty"`
	VMState         string `json:"vmstate,omitempty"`
}

// Confirmed reports whether the node has included the transaction in a block.
func (t *Transaction) Confirmed() bool {
	return t != nil && (t.Confirmations > 0 || t.BlockHash != "")
}

// Faulted reports whether execution of the transaction ended in a FAULT state.
func (t *Transaction) Faulted() bool {
	return t != nil && strings.EqualFold(t.VMState, "FAULT")
}

// ContractState is the result of getcontractstate.
type ContractState struct {
	ID            int      `json:"id"`
	UpdateCounter int      `json:"updatecounter"`
	Hash          string   `json:"hash"`
	Manifest      Manifest `json:"manifest"`
}

type Manifest struct {
	Name               string   `json:"name"`
	SupportedStandards []string `json:"supportedstandards"`
	ABI                ABI      `json:"abi"`
	Extra              any      `json:"extra,omitempty"`
}

type ABI struct {
	Methods []Method `json:"methods"`
	Events  []Event  `json:"events"`
}

type Method struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
	ReturnType string      `json:"returntype"`
	Offset     int         `json:"offset"`
	Safe       bool        `json:"safe"`
}

type Event struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
}

type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Version is the subset of getversion used to identify a node.
type Version struct {
	TCPPort   int    `json:"tcpport"`
	Nonce     uint32 `json:"nonce"`
	UserAgent string `json:"useragent"`
	Protocol  struct {
		Network uint32 `json:"network"`
	} `json:"protocol"`
}
