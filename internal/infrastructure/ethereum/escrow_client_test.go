package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type fakeBackend struct {
	head    uint64
	logs    []types.Log
	call    []byte
	queries []goethereum.FilterQuery
}

func (f *fakeBackend) BlockNumber(context.Context) (uint64, error) { return f.head, nil }

func (f *fakeBackend) FilterLogs(_ context.Context, q goethereum.FilterQuery) ([]types.Log, error) {
	f.queries = append(f.queries, q)
	return f.logs, nil
}

func (f *fakeBackend) CallContract(context.Context, goethereum.CallMsg, *big.Int) ([]byte, error) {
	return f.call, nil
}

var (
	contractAddr = common.HexToAddress("0x00000000000000000000000000000000000000e5")
	depositor    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	beneficiary  = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func newTestClient(t *testing.T, backend Backend, confirmations, maxRange uint64) *EscrowClient {
	t.Helper()
	c, err := NewEscrowClient(backend, contractAddr, confirmations, maxRange)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func createdLog(t *testing.T, c *EscrowClient, id int64, amount int64) types.Log {
	t.Helper()
	event := c.abi.Events["EscrowCreated"]
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(amount))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	return types.Log{
		Address: contractAddr,
		Topics: []common.Hash{
			event.ID,
			common.BigToHash(big.NewInt(id)),
			common.BytesToHash(depositor.Bytes()),
			common.BytesToHash(beneficiary.Bytes()),
		},
		Data:        data,
		BlockNumber: 91,
		TxHash:      common.HexToHash("0xabc"),
		Index:       3,
	}
}

func TestParseLogCreated(t *testing.T) {
	c := newTestClient(t, &fakeBackend{}, 0, 0)
	ev, err := c.ParseLog(createdLog(t, c, 7, 500000))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.Type != domain.ChainEventCreated || ev.EscrowID != 7 || ev.Amount != 500000 {
		t.Errorf("event = %+v", ev)
	}
	if ev.Depositor != depositor.Hex() || ev.Beneficiary != beneficiary.Hex() {
		t.Errorf("parties = %s, %s", ev.Depositor, ev.Beneficiary)
	}
	if ev.LogIndex != 3 || ev.BlockNumber != 91 {
		t.Errorf("position = %d/%d", ev.BlockNumber, ev.LogIndex)
	}
}

func TestParseLogActivatedHasNoData(t *testing.T) {
	c := newTestClient(t, &fakeBackend{}, 0, 0)
	event := c.abi.Events["EscrowActivated"]
	ev, err := c.ParseLog(types.Log{Topics: []common.Hash{event.ID, common.BigToHash(big.NewInt(4))}})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.Type != domain.ChainEventActivated || ev.EscrowID != 4 {
		t.Errorf("event = %+v", ev)
	}
}

func TestParseLogUnknownSignature(t *testing.T) {
	c := newTestClient(t, &fakeBackend{}, 0, 0)
	_, err := c.ParseLog(types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}})
	if !errors.Is(err, errUnknownEvent) {
		t.Errorf("err = %v", err)
	}
}

func TestFetchEventsRespectsConfirmationsAndRange(t *testing.T) {
	backend := &fakeBackend{head: 100}
	c := newTestClient(t, backend, 6, 5)
	backend.logs = []types.Log{createdLog(t, c, 1, 10)}

	events, next, err := c.FetchEvents(context.Background(), 90)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(events) != 1 || next != 95 {
		t.Errorf("events=%d next=%d", len(events), next)
	}
	q := backend.queries[0]
	if q.FromBlock.Uint64() != 90 || q.ToBlock.Uint64() != 94 {
		t.Errorf("query range = %v..%v", q.FromBlock, q.ToBlock)
	}
}

func TestFetchEventsWaitsForConfirmations(t *testing.T) {
	backend := &fakeBackend{head: 100}
	c := newTestClient(t, backend, 6, 100)
	events, next, err := c.FetchEvents(context.Background(), 95)
	if err != nil || len(events) != 0 || next != 95 {
		t.Errorf("events=%d next=%d err=%v", len(events), next, err)
	}
	if len(backend.queries) != 0 {
		t.Error("queried logs for unconfirmed blocks")
	}
}

func TestGetEscrowDecodesView(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestClient(t, backend, 0, 0)
	out, err := c.abi.Methods["getEscrow"].Outputs.Pack(
		depositor, beneficiary, big.NewInt(250), "milestone gate", uint8(1), true, true,
	)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	backend.call = out

	got, err := c.GetEscrow(context.Background(), 9)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount != 250 || got.State != domain.ChainEscrowActive || !got.BeneficiaryApproved {
		t.Errorf("escrow = %+v", got)
	}
}

func TestGetEscrowMissing(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestClient(t, backend, 0, 0)
	out, _ := c.abi.Methods["getEscrow"].Outputs.Pack(
		common.Address{}, common.Address{}, big.NewInt(0), "", uint8(0), false, false,
	)
	backend.call = out
	if _, err := c.GetEscrow(context.Background(), 1); !errors.Is(err, domain.ErrEscrowNotFound) {
		t.Errorf("err = %v", err)
	}
}
