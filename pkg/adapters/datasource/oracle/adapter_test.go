package oracle

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-dal/pkg/adapters/datasource/datasourcetest"
	"github.com/ekaya-inc/ekaya-dal/pkg/apperrors"
)

func TestFromMap(t *testing.T) {
	cfg, err := FromMap(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, ConnectSID, cfg.ConnectMode)
	assert.Equal(t, ScopeDBA, cfg.CatalogScope)

	cfg, err = FromMap(map[string]any{"connect_mode": "SERVICE", "catalog_scope": "all"})
	require.NoError(t, err)
	assert.Equal(t, ConnectService, cfg.ConnectMode)
	assert.Equal(t, ScopeAll, cfg.CatalogScope)
	assert.Equal(t, "ALL_OBJECTS", cfg.objectsView())
}

func TestFromMap_Invalid(t *testing.T) {
	_, err := FromMap(map[string]any{"connect_mode": "tns"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidSetting))

	_, err = FromMap(map[string]any{"catalog_scope": "user"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidSetting))
}

func TestConnectionURL_Service(t *testing.T) {
	coords := datasource.Coordinates{Host: "ora.example.com", Port: 1522, Database: "ORCLPDB1", User: "scott", Password: "ti@ger/1"}

	u, err := url.Parse(connectionURL(&Config{ConnectMode: ConnectService}, coords))
	require.NoError(t, err)
	assert.Equal(t, "oracle", u.Scheme)
	assert.Equal(t, "ora.example.com:1522", u.Host)
	assert.Equal(t, "/ORCLPDB1", u.Path)
	assert.Equal(t, "scott", u.User.Username())
	password, _ := u.User.Password()
	assert.Equal(t, "ti@ger/1", password)
}

func TestConnectionURL_SIDDefaultPort(t *testing.T) {
	coords := datasource.Coordinates{Host: "ora.example.com", Database: "ORCL", User: "scott", Password: "tiger"}

	u, err := url.Parse(connectionURL(&Config{ConnectMode: ConnectSID}, coords))
	require.NoError(t, err)
	assert.Equal(t, "1521", u.Port())
	assert.Equal(t, "ORCL", u.Query().Get("SID"))
}

func TestDB_OpenConnection(t *testing.T) {
	q := datasourcetest.NewQuerier()
	db := NewDB(nil, zaptest.NewLogger(t))

	var gotDSN string
	db.connect = func(_ context.Context, dsn string) (datasource.Querier, error) {
		gotDSN = dsn
		return q, nil
	}

	conn, err := db.OpenConnection(context.Background(), datasource.Coordinates{Host: "ora", Database: "ORCL", User: "scott", Password: "tiger"})
	require.NoError(t, err)
	assert.Contains(t, gotDSN, "oracle://")

	require.NoError(t, conn.Close(context.Background()))
	assert.Equal(t, 1, q.CloseCalls())
}

func TestDB_OpenConnection_AuthFailure(t *testing.T) {
	db := NewDB(nil, zaptest.NewLogger(t))
	db.connect = func(context.Context, string) (datasource.Querier, error) {
		return nil, errors.New("ORA-01017: invalid username/password; logon denied")
	}

	conn, err := db.OpenConnection(context.Background(), datasource.Coordinates{Host: "ora", Database: "ORCL", User: "scott"})
	require.Error(t, err)
	assert.Nil(t, conn)
	assert.True(t, datasource.IsConnectivity(err))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind datasource.ErrorKind
	}{
		{name: "bad credentials", err: errors.New("ORA-01017: invalid username/password"), kind: datasource.KindConnectivity},
		{name: "listener", err: errors.New("ORA-12514: TNS:listener does not currently know of service"), kind: datasource.KindConnectivity},
		{name: "locked account", err: errors.New("ORA-28000: the account is locked"), kind: datasource.KindConnectivity},
		{name: "missing object", err: errors.New("ORA-00942: table or view does not exist"), kind: datasource.KindQuery},
		{name: "insufficient privileges", err: errors.New("ORA-01031: insufficient privileges"), kind: datasource.KindQuery},
		{name: "deadline", err: context.DeadlineExceeded, kind: datasource.KindConnectivity},
		{name: "unrecognized", err: errors.New("something odd"), kind: datasource.KindQuery},
		{name: "already mapped", err: datasource.NewContractViolation("op", "bad"), kind: datasource.KindContractViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, datasource.KindOf(mapError("op", "msg", tt.err)))
		})
	}

	assert.NoError(t, mapError("op", "msg", nil))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"ORDERS"`, quoteIdent("ORDERS"))
	assert.Equal(t, `"Order""Lines"`, quoteIdent(`Order"Lines`))
}

func TestRegistered(t *testing.T) {
	assert.True(t, datasource.IsRegistered("oracle"))

	_, err := datasource.NewDB("oracle", map[string]any{"connect_mode": "bogus"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidSetting))
}
