package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafchain/leafchain-api/internal/config"
	"github.com/leafchain/leafchain-api/internal/models"
	"github.com/leafchain/leafchain-api/internal/services"
	"github.com/leafchain/leafchain-api/internal/store"
)

type testServer struct {
	router http.Handler
	auth   *services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	marketCfg := config.MarketConfig{
		FeeRate:         0.10,
		Currency:        "ETH",
		ContractAddress: "0x1234567890123456789012345678901234567890",
		ChainID:         "137",
		ListingTTLHours: 168,
		TokenIDBase:     1000,
	}
	authCfg := config.AuthConfig{JWTSecret: "test-secret", JWTExpiration: 24}

	ledger := store.NewMemoryLedger(marketCfg.TokenIDBase)
	trades := store.NewMemoryTradeLog()
	collections := store.NewMemoryCollectionStore()
	require.NoError(t, services.EnsureDefaultCollection(context.Background(), collections, marketCfg))

	hub := NewHub()
	go hub.Run()

	settlement := services.NewSettlementService(marketCfg)
	auth := services.NewAuthService(authCfg)

	router := NewRouter(Services{
		Auth:      auth,
		Mint:      services.NewMintService(ledger, collections, settlement, services.DefaultCollectionID, nil, hub),
		Market:    services.NewMarketService(ledger, trades, collections, settlement, marketCfg, services.DefaultCollectionID, hub),
		Portfolio: services.NewPortfolioService(ledger, trades),
		Catalog:   services.NewCatalogService(ledger, trades, collections, marketCfg),
		Hub:       hub,
	})

	return &testServer{router: router, auth: auth}
}

// do runs one request through the router. A non-nil body is sent as JSON; a
// non-empty token goes into the Authorization header.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func (s *testServer) mintOne(t *testing.T, owner string) models.PlantNFT {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/nfts/mint", "", models.MintRequest{
		Snapshot:     models.SampleSpecies[0].Snapshot("Nairobi, Kenya"),
		OwnerAddress: owner,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var nft models.PlantNFT
	decodeJSON(t, rec, &nft)
	return nft
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMintEndpoint(t *testing.T) {
	server := newTestServer(t)

	nft := server.mintOne(t, "0xaaa")
	assert.Equal(t, int64(1001), nft.TokenID)
	assert.Equal(t, "Mango Tree Guardian #1001", nft.Name)
	assert.Equal(t, "0xaaa", nft.Ownership.OwnerAddress)

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/nfts/mint", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		server.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid snapshot", func(t *testing.T) {
		rec := server.do(t, http.MethodPost, "/api/v1/nfts/mint", "", models.MintRequest{
			Snapshot:     models.ImpactSnapshot{SpeciesName: "Ficus lyrata"},
			OwnerAddress: "0xaaa",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("owner defaults to authenticated wallet", func(t *testing.T) {
		token, _, err := server.auth.IssueToken("0xwallet")
		require.NoError(t, err)

		rec := server.do(t, http.MethodPost, "/api/v1/nfts/mint", token, models.MintRequest{
			Snapshot: models.SampleSpecies[1].Snapshot(""),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var nft models.PlantNFT
		decodeJSON(t, rec, &nft)
		assert.Equal(t, "0xwallet", nft.Ownership.OwnerAddress)
	})
}

func TestGetNFTEndpoints(t *testing.T) {
	server := newTestServer(t)
	nft := server.mintOne(t, "0xaaa")

	rec := server.do(t, http.MethodGet, "/api/v1/nfts/"+nft.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.PlantNFT
	decodeJSON(t, rec, &got)
	assert.Equal(t, nft.TokenID, got.TokenID)

	rec = server.do(t, http.MethodGet, "/api/v1/nfts/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/v1/nfts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []models.PlantNFT
	decodeJSON(t, rec, &all)
	assert.Len(t, all, 1)
}

func TestListAndPurchaseFlow(t *testing.T) {
	server := newTestServer(t)
	nft := server.mintOne(t, "0xseller")

	// Purchasing before any listing conflicts.
	rec := server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/purchase", nft.ID), "",
		models.PurchaseRequest{BuyerAddress: "0xbuyer"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/list", nft.ID), "",
		models.ListRequest{Price: 0.1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = server.do(t, http.MethodGet, "/api/v1/marketplace/listings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var market models.MarketplaceResponse
	decodeJSON(t, rec, &market)
	require.Len(t, market.Listings, 1)
	assert.Equal(t, 0.1, market.Listings[0].Price)

	rec = server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/purchase", nft.ID), "",
		models.PurchaseRequest{BuyerAddress: "0xbuyer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var bought models.PlantNFT
	decodeJSON(t, rec, &bought)
	assert.Equal(t, "0xbuyer", bought.Ownership.OwnerAddress)

	rec = server.do(t, http.MethodGet, "/api/v1/marketplace/listings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &market)
	assert.Empty(t, market.Listings)

	rec = server.do(t, http.MethodGet, "/api/v1/trades", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trades models.TradeListResponse
	decodeJSON(t, rec, &trades)
	require.Equal(t, 1, trades.TotalCount)
	assert.InDelta(t, 0.01, trades.Trades[0].MarketplaceFee, 1e-9)
}

func TestListEndpointStatuses(t *testing.T) {
	server := newTestServer(t)
	nft := server.mintOne(t, "0xseller")

	rec := server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/list", nft.ID), "",
		models.ListRequest{Price: -1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = server.do(t, http.MethodPost, "/api/v1/nfts/missing/list", "",
		models.ListRequest{Price: 0.1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Listing with a token for a wallet that does not own the record.
	token, _, err := server.auth.IssueToken("0xstranger")
	require.NoError(t, err)
	rec = server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/list", nft.ID), token,
		models.ListRequest{Price: 0.1})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPurchaseRequiresBuyer(t *testing.T) {
	server := newTestServer(t)
	nft := server.mintOne(t, "0xseller")

	rec := server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/list", nft.ID), "",
		models.ListRequest{Price: 0.1})
	require.Equal(t, http.StatusOK, rec.Code)

	// No body address, no token: rejected before reaching the engine.
	rec = server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/purchase", nft.ID), "",
		models.PurchaseRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A wallet token fills in the buyer.
	token, _, err := server.auth.IssueToken("0xbuyer")
	require.NoError(t, err)
	rec = server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/purchase", nft.ID), token,
		models.PurchaseRequest{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var bought models.PlantNFT
	decodeJSON(t, rec, &bought)
	assert.Equal(t, "0xbuyer", bought.Ownership.OwnerAddress)

	// Buying your own listing conflicts.
	rec = server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/list", nft.ID), token,
		models.ListRequest{Price: 0.2})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/purchase", nft.ID), token,
		models.PurchaseRequest{})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthEndpoints(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/api/v1/auth/token", "",
		TokenRequest{Address: "0xwallet"})
	require.Equal(t, http.StatusOK, rec.Code)

	var issued TokenResponse
	decodeJSON(t, rec, &issued)
	assert.NotEmpty(t, issued.Token)

	address, err := server.auth.ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "0xwallet", address)

	rec = server.do(t, http.MethodPost, "/api/v1/auth/token", "", TokenRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed and invalid bearer tokens are rejected outright.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nfts", nil)
	req.Header.Set("Authorization", "NotBearer xyz")
	out := httptest.NewRecorder()
	server.router.ServeHTTP(out, req)
	assert.Equal(t, http.StatusUnauthorized, out.Code)

	rec = server.do(t, http.MethodGet, "/api/v1/nfts", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPortfolioEndpoint(t *testing.T) {
	server := newTestServer(t)

	nft := server.mintOne(t, "0xholder")
	rec := server.do(t, http.MethodPost, fmt.Sprintf("/api/v1/nfts/%s/list", nft.ID), "",
		models.ListRequest{Price: 0.25})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/v1/portfolio/0xholder", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var portfolio models.Portfolio
	decodeJSON(t, rec, &portfolio)
	assert.Equal(t, 1, portfolio.TotalNFTs)
	assert.Equal(t, 0.25, portfolio.TotalValue)

	rec = server.do(t, http.MethodGet, "/api/v1/portfolio/0xnobody", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &portfolio)
	assert.Zero(t, portfolio.TotalNFTs)
}

func TestCollectionAndSpeciesEndpoints(t *testing.T) {
	server := newTestServer(t)

	rec := server.do(t, http.MethodGet, "/api/v1/collections", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var collections []models.Collection
	decodeJSON(t, rec, &collections)
	require.Len(t, collections, 1)
	assert.Equal(t, services.DefaultCollectionID, collections[0].ID)

	rec = server.do(t, http.MethodGet, "/api/v1/collections/"+services.DefaultCollectionID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/v1/collections/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = server.do(t, http.MethodGet, "/api/v1/species", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var species []models.Species
	decodeJSON(t, rec, &species)
	assert.Len(t, species, len(models.SampleSpecies))
}
