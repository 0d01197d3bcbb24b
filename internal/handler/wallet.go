package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinehall/movie-booking/internal/model"
	"github.com/cinehall/movie-booking/internal/repository"
	"github.com/cinehall/movie-booking/internal/wallet"
)

// WalletHandler serves wallet balance, ledger history and the
// deposit/withdraw operations. Every mutation locks the owner's users
// row, so two requests against the same wallet execute one after the
// other and the ledger's running balances stay consistent.
type WalletHandler struct {
	Users   *repository.UserRepo
	Wallets *repository.WalletRepo
}

func NewWalletHandler(u *repository.UserRepo, w *repository.WalletRepo) *WalletHandler {
	return &WalletHandler{Users: u, Wallets: w}
}

// Balance handles GET /v1/wallet.
func (h *WalletHandler) Balance(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load wallet"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"balance_cents":  u.WalletBalanceCents,
		"loyalty_points": u.LoyaltyPoints,
	})
}

// Transactions handles GET /v1/wallet/transactions.
func (h *WalletHandler) Transactions(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	txns, err := h.Wallets.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load transactions"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": txns})
}

type amountReq struct {
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
}

// Deposit handles POST /v1/wallet/deposit.
func (h *WalletHandler) Deposit(c echo.Context) error {
	return h.mutate(c, model.TxnDeposit)
}

// Withdraw handles POST /v1/wallet/withdraw. Withdrawals that exceed
// the balance are rejected; the wallet can never go negative.
func (h *WalletHandler) Withdraw(c echo.Context) error {
	return h.mutate(c, model.TxnWithdrawal)
}

func (h *WalletHandler) mutate(c echo.Context, txnType string) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.AmountCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_cents must be positive"})
	}

	ctx := c.Request().Context()
	tx, err := h.Wallets.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	balance, err := h.Wallets.BalanceForUpdateTx(ctx, tx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load wallet"})
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		desc = strings.ToLower(txnType)
	}
	entry, err := wallet.Entry(userID, nil, txnType, balance, req.AmountCents, desc)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "insufficient wallet balance"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Wallets.AppendTx(ctx, tx, &entry); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record transaction"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusOK, echo.Map{
		"txn_id":        entry.ID,
		"txn_type":      entry.TxnType,
		"amount_cents":  entry.AmountCents,
		"balance_cents": entry.BalanceCents,
	})
}
