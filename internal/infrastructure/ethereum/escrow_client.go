package ethereum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/LavaJover/trust-marketplace-service/internal/config"
	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is the subset of *ethclient.Client the escrow client needs.
type Backend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q goethereum.FilterQuery) ([]types.Log, error)
	CallContract(ctx context.Context, call goethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// EscrowClient reads escrow state and confirmed events from a deployed contract.
type EscrowClient struct {
	backend       Backend
	abi           abi.ABI
	address       common.Address
	confirmations uint64
	maxRange      uint64
}

func Dial(ctx context.Context, cfg config.Chain) (*EscrowClient, *ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: dial %s: %v", domain.ErrChainUnavailable, cfg.RPCURL, err)
	}
	ec, err := NewEscrowClient(client, common.HexToAddress(cfg.EscrowContract), cfg.Confirmations, cfg.MaxBlockRange)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return ec, client, nil
}

func NewEscrowClient(backend Backend, address common.Address, confirmations, maxRange uint64) (*EscrowClient, error) {
	parsed, err := abi.JSON(strings.NewReader(EscrowABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse escrow ABI: %w", err)
	}
	if maxRange == 0 {
		maxRange = 2000
	}
	return &EscrowClient{
		backend:       backend,
		abi:           parsed,
		address:       address,
		confirmations: confirmations,
		maxRange:      maxRange,
	}, nil
}

func (c *EscrowClient) GetEscrow(ctx context.Context, escrowID uint64) (*domain.ChainEscrow, error) {
	input, err := c.abi.Pack("getEscrow", new(big.Int).SetUint64(escrowID))
	if err != nil {
		return nil, err
	}
	out, err := c.backend.CallContract(ctx, goethereum.CallMsg{To: &c.address, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: getEscrow(%d): %v", domain.ErrChainUnavailable, escrowID, err)
	}
	values, err := c.abi.Unpack("getEscrow", out)
	if err != nil {
		return nil, fmt.Errorf("unpack getEscrow: %w", err)
	}
	if len(values) != 7 {
		return nil, fmt.Errorf("unpack getEscrow: got %d values", len(values))
	}

	depositor, _ := values[0].(common.Address)
	if depositor == (common.Address{}) {
		return nil, domain.ErrEscrowNotFound
	}
	beneficiary, _ := values[1].(common.Address)
	amount, err := toUint64(values[2])
	if err != nil {
		return nil, err
	}
	conditions, _ := values[3].(string)
	state, _ := values[4].(uint8)
	depositorApproved, _ := values[5].(bool)
	beneficiaryApproved, _ := values[6].(bool)

	return &domain.ChainEscrow{
		ID:                  escrowID,
		Depositor:           depositor.Hex(),
		Beneficiary:         beneficiary.Hex(),
		Amount:              amount,
		ReleaseConditions:   conditions,
		State:               domain.ChainEscrowState(state),
		DepositorApproved:   depositorApproved,
		BeneficiaryApproved: beneficiaryApproved,
	}, nil
}

// FetchEvents scans at most maxRange blocks starting at fromBlock, stopping
// short of the blocks that do not yet have enough confirmations.
func (c *EscrowClient) FetchEvents(ctx context.Context, fromBlock uint64) ([]domain.ChainEvent, uint64, error) {
	head, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return nil, fromBlock, fmt.Errorf("%w: block number: %v", domain.ErrChainUnavailable, err)
	}
	if head < c.confirmations {
		return nil, fromBlock, nil
	}
	safe := head - c.confirmations
	if fromBlock > safe {
		return nil, fromBlock, nil
	}
	to := safe
	if to-fromBlock+1 > c.maxRange {
		to = fromBlock + c.maxRange - 1
	}

	logs, err := c.backend.FilterLogs(ctx, goethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{c.address},
	})
	if err != nil {
		return nil, fromBlock, fmt.Errorf("%w: filter logs: %v", domain.ErrChainUnavailable, err)
	}

	events := make([]domain.ChainEvent, 0, len(logs))
	for _, lg := range logs {
		if lg.Removed {
			continue
		}
		ev, err := c.ParseLog(lg)
		if err != nil {
			slog.WarnContext(ctx, "skipping escrow log", "tx", lg.TxHash.Hex(), "index", lg.Index, "error", err)
			continue
		}
		events = append(events, ev)
	}
	return events, to + 1, nil
}

var errUnknownEvent = errors.New("unknown event signature")

// ParseLog decodes one contract log into a chain event.
func (c *EscrowClient) ParseLog(lg types.Log) (domain.ChainEvent, error) {
	if len(lg.Topics) == 0 {
		return domain.ChainEvent{}, errUnknownEvent
	}
	event, err := c.abi.EventByID(lg.Topics[0])
	if err != nil {
		return domain.ChainEvent{}, errUnknownEvent
	}

	ev := domain.ChainEvent{
		Type:        domain.ChainEventType(event.Name),
		TxHash:      lg.TxHash.Hex(),
		LogIndex:    lg.Index,
		BlockNumber: lg.BlockNumber,
	}

	indexed := make([]abi.Argument, 0, len(event.Inputs))
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if len(lg.Topics)-1 != len(indexed) {
		return domain.ChainEvent{}, fmt.Errorf("%s: expected %d topics, got %d", event.Name, len(indexed), len(lg.Topics)-1)
	}
	for i, input := range indexed {
		topic := lg.Topics[i+1]
		switch input.Name {
		case "escrowId":
			id := new(big.Int).SetBytes(topic.Bytes())
			if !id.IsUint64() {
				return domain.ChainEvent{}, fmt.Errorf("%s: escrow id out of range", event.Name)
			}
			ev.EscrowID = id.Uint64()
		case "depositor":
			ev.Depositor = common.BytesToAddress(topic.Bytes()).Hex()
		case "beneficiary":
			ev.Beneficiary = common.BytesToAddress(topic.Bytes()).Hex()
		case "party":
			ev.Party = common.BytesToAddress(topic.Bytes()).Hex()
		}
	}

	if len(lg.Data) > 0 {
		values := map[string]interface{}{}
		if err := event.Inputs.NonIndexed().UnpackIntoMap(values, lg.Data); err != nil {
			return domain.ChainEvent{}, fmt.Errorf("%s: unpack data: %w", event.Name, err)
		}
		if raw, ok := values["amount"]; ok {
			amount, err := toUint64(raw)
			if err != nil {
				return domain.ChainEvent{}, fmt.Errorf("%s: %w", event.Name, err)
			}
			ev.Amount = amount
		}
	}
	return ev, nil
}

func toUint64(v interface{}) (uint64, error) {
	n, ok := v.(*big.Int)
	if !ok || n.Sign() < 0 || !n.IsUint64() {
		return 0, domain.ErrAmountOverflow
	}
	return n.Uint64(), nil
}
