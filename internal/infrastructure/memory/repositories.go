package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/LavaJover/trust-marketplace-service/internal/domain"
)

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	defer s.lock(ctx)()
	for _, existing := range s.t.users {
		if existing.ID == user.ID || existing.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	s.t.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	defer s.lock(ctx)()
	user, ok := s.t.users[userID]
	if !ok {
		return nil, domain.ErrInvestorNotFound
	}
	return &user, nil
}

func (s *Store) CreateProject(ctx context.Context, project *domain.Project) error {
	defer s.lock(ctx)()
	if _, ok := s.t.projects[project.ID]; ok {
		return fmt.Errorf("%w: project %s exists", domain.ErrInvalidInput, project.ID)
	}
	s.t.projects[project.ID] = *project
	return nil
}

func (s *Store) GetProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	defer s.lock(ctx)()
	project, ok := s.t.projects[projectID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return &project, nil
}

// GetProjectForUpdate needs no row lock: a transaction already holds the whole store.
func (s *Store) GetProjectForUpdate(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.GetProjectByID(ctx, projectID)
}

func (s *Store) AddToCurrentAmount(ctx context.Context, projectID string, delta int64) error {
	defer s.lock(ctx)()
	project, ok := s.t.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	amount, err := domain.AddAmounts(project.CurrentAmount, delta)
	if err != nil {
		return err
	}
	if amount < 0 {
		amount = 0
	}
	project.CurrentAmount = amount
	project.UpdatedAt = s.now()
	s.t.projects[projectID] = project
	return nil
}

func (s *Store) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, int64, error) {
	defer s.lock(ctx)()
	allowed := make(map[domain.ProjectStatus]bool, len(filter.Statuses))
	for _, st := range filter.Statuses {
		allowed[st] = true
	}
	var projects []*domain.Project
	for _, p := range s.t.projects {
		if len(allowed) > 0 && !allowed[p.Status] {
			continue
		}
		p := p
		projects = append(projects, &p)
	}
	sort.Slice(projects, func(i, j int) bool {
		return newerFirst(projects[i].CreatedAt, projects[j].CreatedAt, projects[i].ID, projects[j].ID)
	})
	total := int64(len(projects))
	if filter.Limit > 0 {
		start := filter.Page * filter.Limit
		if start > len(projects) {
			start = len(projects)
		}
		end := start + filter.Limit
		if end > len(projects) {
			end = len(projects)
		}
		projects = projects[start:end]
	}
	return projects, total, nil
}

func (s *Store) CreateInvestment(ctx context.Context, investment *domain.Investment) error {
	defer s.lock(ctx)()
	for _, existing := range s.t.investments {
		if existing.InvestorID == investment.InvestorID && existing.ProjectID == investment.ProjectID {
			return domain.ErrDuplicateInvestment
		}
	}
	s.t.investments[investment.ID] = *investment
	return nil
}

func (s *Store) GetInvestmentByID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	defer s.lock(ctx)()
	investment, ok := s.t.investments[investmentID]
	if !ok {
		return nil, domain.ErrInvestmentNotFound
	}
	return &investment, nil
}

func (s *Store) FindInvestment(ctx context.Context, investorID, projectID string) (*domain.Investment, error) {
	defer s.lock(ctx)()
	for _, investment := range s.t.investments {
		if investment.InvestorID == investorID && investment.ProjectID == projectID {
			return &investment, nil
		}
	}
	return nil, domain.ErrInvestmentNotFound
}

func (s *Store) UpdateInvestmentStatus(ctx context.Context, investmentID string, status domain.InvestmentStatus) error {
	defer s.lock(ctx)()
	investment, ok := s.t.investments[investmentID]
	if !ok {
		return domain.ErrInvestmentNotFound
	}
	investment.Status = status
	investment.UpdatedAt = s.now()
	s.t.investments[investmentID] = investment
	return nil
}

func (s *Store) ListInvestorInvestments(ctx context.Context, investorID string) ([]*domain.Investment, error) {
	return s.listInvestments(ctx, func(i domain.Investment) bool { return i.InvestorID == investorID })
}

func (s *Store) ListProjectInvestments(ctx context.Context, projectID string) ([]*domain.Investment, error) {
	return s.listInvestments(ctx, func(i domain.Investment) bool { return i.ProjectID == projectID })
}

func (s *Store) listInvestments(ctx context.Context, match func(domain.Investment) bool) ([]*domain.Investment, error) {
	defer s.lock(ctx)()
	investments := make([]*domain.Investment, 0)
	for _, investment := range s.t.investments {
		if match(investment) {
			investment := investment
			investments = append(investments, &investment)
		}
	}
	sort.Slice(investments, func(i, j int) bool {
		return newerFirst(investments[i].CreatedAt, investments[j].CreatedAt, investments[i].ID, investments[j].ID)
	})
	return investments, nil
}

func (s *Store) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	defer s.lock(ctx)()
	for _, existing := range s.t.payments {
		if existing.TransactionID == payment.TransactionID {
			return fmt.Errorf("%w: duplicate payment transaction id", domain.ErrInvalidInput)
		}
	}
	s.t.payments[payment.ID] = *payment
	return nil
}

func (s *Store) GetPaymentByInvestmentID(ctx context.Context, investmentID string) (*domain.Payment, error) {
	defer s.lock(ctx)()
	for _, payment := range s.t.payments {
		if payment.InvestmentID != nil && *payment.InvestmentID == investmentID {
			return &payment, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus) error {
	defer s.lock(ctx)()
	payment, ok := s.t.payments[paymentID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	payment.Status = status
	payment.UpdatedAt = s.now()
	s.t.payments[paymentID] = payment
	return nil
}

// Payments returns every stored payment; used by tests and admin tooling.
func (s *Store) Payments(ctx context.Context) []domain.Payment {
	defer s.lock(ctx)()
	payments := make([]domain.Payment, 0, len(s.t.payments))
	for _, p := range s.t.payments {
		payments = append(payments, p)
	}
	return payments
}

func (s *Store) CreateEscrow(ctx context.Context, escrow *domain.EscrowContract) error {
	defer s.lock(ctx)()
	for _, existing := range s.t.escrows {
		if existing.InvestmentID == escrow.InvestmentID {
			return domain.ErrEscrowAlreadyExists
		}
		if escrow.ChainEscrowID != nil && existing.ChainEscrowID != nil && *existing.ChainEscrowID == *escrow.ChainEscrowID {
			return domain.ErrEscrowAlreadyBound
		}
	}
	s.t.escrows[escrow.ID] = *escrow
	return nil
}

func (s *Store) GetEscrowByID(ctx context.Context, escrowID string) (*domain.EscrowContract, error) {
	defer s.lock(ctx)()
	escrow, ok := s.t.escrows[escrowID]
	if !ok {
		return nil, domain.ErrEscrowNotFound
	}
	return &escrow, nil
}

func (s *Store) GetEscrowByInvestmentID(ctx context.Context, investmentID string) (*domain.EscrowContract, error) {
	return s.findEscrow(ctx, func(e domain.EscrowContract) bool { return e.InvestmentID == investmentID })
}

func (s *Store) GetEscrowByChainID(ctx context.Context, chainEscrowID uint64) (*domain.EscrowContract, error) {
	return s.findEscrow(ctx, func(e domain.EscrowContract) bool {
		return e.ChainEscrowID != nil && *e.ChainEscrowID == chainEscrowID
	})
}

func (s *Store) findEscrow(ctx context.Context, match func(domain.EscrowContract) bool) (*domain.EscrowContract, error) {
	defer s.lock(ctx)()
	for _, escrow := range s.t.escrows {
		if match(escrow) {
			return &escrow, nil
		}
	}
	return nil, domain.ErrEscrowNotFound
}

func (s *Store) ListProjectEscrows(ctx context.Context, projectID string) ([]*domain.EscrowContract, error) {
	defer s.lock(ctx)()
	escrows := make([]*domain.EscrowContract, 0)
	for _, escrow := range s.t.escrows {
		if escrow.ProjectID == projectID {
			escrow := escrow
			escrows = append(escrows, &escrow)
		}
	}
	sort.Slice(escrows, func(i, j int) bool {
		return newerFirst(escrows[i].CreatedAt, escrows[j].CreatedAt, escrows[i].ID, escrows[j].ID)
	})
	return escrows, nil
}

func (s *Store) BindChainEscrow(ctx context.Context, escrowID string, chainEscrowID uint64) error {
	defer s.lock(ctx)()
	escrow, ok := s.t.escrows[escrowID]
	if !ok {
		return domain.ErrEscrowNotFound
	}
	if escrow.ChainEscrowID != nil {
		return domain.ErrEscrowAlreadyBound
	}
	for _, other := range s.t.escrows {
		if other.ChainEscrowID != nil && *other.ChainEscrowID == chainEscrowID {
			return domain.ErrEscrowAlreadyBound
		}
	}
	id := chainEscrowID
	escrow.ChainEscrowID = &id
	escrow.UpdatedAt = s.now()
	s.t.escrows[escrowID] = escrow
	return nil
}

func (s *Store) UpdateEscrowStatus(ctx context.Context, escrowID string, status domain.EscrowStatus) error {
	defer s.lock(ctx)()
	escrow, ok := s.t.escrows[escrowID]
	if !ok {
		return domain.ErrEscrowNotFound
	}
	escrow.Status = status
	escrow.UpdatedAt = s.now()
	s.t.escrows[escrowID] = escrow
	return nil
}

func (s *Store) GetCursor(ctx context.Context, name string) (uint64, error) {
	defer s.lock(ctx)()
	return s.t.cursors[name], nil
}

func (s *Store) SaveCursor(ctx context.Context, name string, block uint64) error {
	defer s.lock(ctx)()
	s.t.cursors[name] = block
	return nil
}

func (s *Store) MarkEventProcessed(ctx context.Context, txHash string, logIndex uint) (bool, error) {
	defer s.lock(ctx)()
	key := fmt.Sprintf("%s:%d", txHash, logIndex)
	if _, ok := s.t.processed[key]; ok {
		return false, nil
	}
	s.t.processed[key] = struct{}{}
	return true, nil
}

func (s *Store) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	defer s.lock(ctx)()
	cart := &domain.Cart{UserID: userID, Items: make([]domain.CartItem, 0, len(s.t.carts[userID]))}
	for _, item := range s.t.carts[userID] {
		cart.Items = append(cart.Items, item)
		if item.AddedAt.After(cart.UpdatedAt) {
			cart.UpdatedAt = item.AddedAt
		}
	}
	sort.Slice(cart.Items, func(i, j int) bool {
		if cart.Items[i].AddedAt.Equal(cart.Items[j].AddedAt) {
			return cart.Items[i].ProjectID < cart.Items[j].ProjectID
		}
		return cart.Items[i].AddedAt.Before(cart.Items[j].AddedAt)
	})
	return cart, nil
}

func (s *Store) UpsertItem(ctx context.Context, userID string, item domain.CartItem) error {
	defer s.lock(ctx)()
	items, ok := s.t.carts[userID]
	if !ok {
		items = make(map[string]domain.CartItem)
		s.t.carts[userID] = items
	}
	if existing, ok := items[item.ProjectID]; ok {
		item.AddedAt = existing.AddedAt
	} else if item.AddedAt.IsZero() {
		item.AddedAt = s.now()
	}
	items[item.ProjectID] = item
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, userID, projectID string) error {
	defer s.lock(ctx)()
	items := s.t.carts[userID]
	if _, ok := items[projectID]; !ok {
		return domain.ErrCartItemNotFound
	}
	delete(items, projectID)
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	defer s.lock(ctx)()
	delete(s.t.carts, userID)
	return nil
}

func (s *Store) CreateOrder(ctx context.Context, order *domain.Order) error {
	defer s.lock(ctx)()
	o := *order
	o.Items = append([]domain.OrderItem(nil), order.Items...)
	s.t.orders[order.ID] = o
	return nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	defer s.lock(ctx)()
	order, ok := s.t.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = s.now()
	s.t.orders[orderID] = order
	return nil
}

func (s *Store) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	defer s.lock(ctx)()
	order, ok := s.t.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order.Items = append([]domain.OrderItem(nil), order.Items...)
	return &order, nil
}

func (s *Store) ListUserOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	defer s.lock(ctx)()
	orders := make([]*domain.Order, 0)
	for _, order := range s.t.orders {
		if order.UserID == userID {
			order := order
			order.Items = append([]domain.OrderItem(nil), order.Items...)
			orders = append(orders, &order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return newerFirst(orders[i].CreatedAt, orders[j].CreatedAt, orders[i].ID, orders[j].ID)
	})
	return orders, nil
}

func (s *Store) CreateProposal(ctx context.Context, proposal *domain.Proposal) error {
	defer s.lock(ctx)()
	s.t.proposals[proposal.ID] = *proposal
	return nil
}

func (s *Store) GetProposalByID(ctx context.Context, proposalID string) (*domain.Proposal, error) {
	defer s.lock(ctx)()
	proposal, ok := s.t.proposals[proposalID]
	if !ok {
		return nil, domain.ErrProposalNotFound
	}
	return &proposal, nil
}

func (s *Store) CreateVote(ctx context.Context, vote *domain.Vote) error {
	defer s.lock(ctx)()
	votes, ok := s.t.votes[vote.ProposalID]
	if !ok {
		votes = make(map[string]domain.Vote)
		s.t.votes[vote.ProposalID] = votes
	}
	if _, ok := votes[vote.VoterID]; ok {
		return domain.ErrAlreadyVoted
	}
	votes[vote.VoterID] = *vote
	return nil
}

func (s *Store) ListVotes(ctx context.Context, proposalID string) ([]*domain.Vote, error) {
	defer s.lock(ctx)()
	votes := make([]*domain.Vote, 0, len(s.t.votes[proposalID]))
	for _, vote := range s.t.votes[proposalID] {
		vote := vote
		votes = append(votes, &vote)
	}
	sort.Slice(votes, func(i, j int) bool {
		if votes[i].CastAt.Equal(votes[j].CastAt) {
			return votes[i].VoterID < votes[j].VoterID
		}
		return votes[i].CastAt.Before(votes[j].CastAt)
	})
	return votes, nil
}

func (s *Store) Record(ctx context.Context, record domain.AuditRecord) error {
	defer s.lock(ctx)()
	s.t.audit = append(s.t.audit, record)
	return nil
}

// AuditRecords returns a copy of the recorded audit trail.
func (s *Store) AuditRecords(ctx context.Context) []domain.AuditRecord {
	defer s.lock(ctx)()
	return append([]domain.AuditRecord(nil), s.t.audit...)
}

func newerFirst(a, b time.Time, idA, idB string) bool {
	if a.Equal(b) {
		return idA < idB
	}
	return a.After(b)
}
