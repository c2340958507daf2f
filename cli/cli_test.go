package cli

import (
	"bytes"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ucli "github.com/urfave/cli/v2"

	"github.com/Veric-Protocol/pbc-did-registry/api"
	"github.com/Veric-Protocol/pbc-did-registry/api/mocks"
	"github.com/Veric-Protocol/pbc-did-registry/build"
	"github.com/Veric-Protocol/pbc-did-registry/chain/actors/builtin/didregistry"
	"github.com/Veric-Protocol/pbc-did-registry/chain/types"
)

var (
	alice = types.MustParseAddress("000000000000000000000000000000000000000002")
	bob   = types.MustParseAddress("000000000000000000000000000000000000000003")
)

const did = "did:metablox:alice"

// newMockAppWithRegistryAPI returns a gomock-ed CLI app used for unit tests.
// See GetRegistryAPI for mock API injection.
func newMockAppWithRegistryAPI(t *testing.T, cmd *ucli.Command) (*ucli.App, *mocks.MockRegistry, *bytes.Buffer) {
	app := ucli.NewApp()
	app.Name = "did-registry"
	app.Commands = ucli.Commands{cmd}
	app.Setup()

	ctrl := gomock.NewController(t)
	mockRegistry := mocks.NewMockRegistry(ctrl)
	var reg api.Registry = mockRegistry
	app.Metadata[metadataTestAPI] = reg

	buf := &bytes.Buffer{}
	app.Writer = buf

	return app, mockRegistry, buf
}

func TestDIDRegister(t *testing.T) {
	app, mockApi, buf := newMockAppWithRegistryAPI(t, DIDCmd)

	mockApi.EXPECT().RegistryRegisterDID(gomock.Any(), alice, did).Return(&api.ApplyResult{
		ExitName: "Ok",
		Height:   1,
	}, nil)

	err := app.Run([]string{"did-registry", "did", "register", "--from", alice.String(), did})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Ok (0)")
	assert.Contains(t, buf.String(), "height:  1")
}

func TestDIDRegisterFailureExits(t *testing.T) {
	app, mockApi, buf := newMockAppWithRegistryAPI(t, DIDCmd)

	mockApi.EXPECT().RegistryRegisterDID(gomock.Any(), bob, did).Return(&api.ApplyResult{
		Receipt:  types.MessageReceipt{ExitCode: didregistry.ErrRegisteredByOther},
		ExitName: "RegisteredByOther",
		Error:    "DID registered by another address",
	}, nil)

	err := app.Run([]string{"did-registry", "did", "register", "--from", bob.String(), did})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RegisteredByOther")
	assert.Contains(t, buf.String(), "error:   DID registered by another address")
}

func TestDIDRegisterBadFrom(t *testing.T) {
	app, _, _ := newMockAppWithRegistryAPI(t, DIDCmd)

	err := app.Run([]string{"did-registry", "did", "register", "--from", "nope", did})
	require.Error(t, err)
}

func TestDIDSetAttr(t *testing.T) {
	app, mockApi, _ := newMockAppWithRegistryAPI(t, DIDCmd)

	gomock.InOrder(
		mockApi.EXPECT().RegistrySetAttribute(gomock.Any(), alice, did, []string{"a", "b"}).Return(&api.ApplyResult{ExitName: "Ok"}, nil),
		mockApi.EXPECT().RegistrySetAttribute(gomock.Any(), alice, did, []string{}).Return(&api.ApplyResult{ExitName: "Ok"}, nil),
	)

	require.NoError(t, app.Run([]string{"did-registry", "did", "set-attr", "--from", alice.String(), did, "a", "b"}))
	require.NoError(t, app.Run([]string{"did-registry", "did", "set-attr", "--from", alice.String(), did}))
}

func TestDIDAddDelegate(t *testing.T) {
	app, mockApi, _ := newMockAppWithRegistryAPI(t, DIDCmd)

	mockApi.EXPECT().RegistryAddDelegate(gomock.Any(), alice, did, bob, int64(3600)).Return(&api.ApplyResult{ExitName: "Ok"}, nil)

	require.NoError(t, app.Run([]string{"did-registry", "did", "add-delegate", "--from", alice.String(), did, bob.String(), "3600"}))

	err := app.Run([]string{"did-registry", "did", "add-delegate", "--from", alice.String(), did, bob.String(), "soon"})
	require.Error(t, err)
}

func TestDIDChangeOwner(t *testing.T) {
	app, mockApi, _ := newMockAppWithRegistryAPI(t, DIDCmd)

	mockApi.EXPECT().RegistryChangeOwner(gomock.Any(), alice, did, bob).Return(&api.ApplyResult{ExitName: "Ok"}, nil)

	require.NoError(t, app.Run([]string{"did-registry", "did", "change-owner", "--from", alice.String(), did, bob.String()}))
}

func TestDIDLookup(t *testing.T) {
	app, mockApi, buf := newMockAppWithRegistryAPI(t, DIDCmd)

	gomock.InOrder(
		mockApi.EXPECT().RegistryDidLookup(gomock.Any(), did).Return(alice, nil),
		mockApi.EXPECT().RegistryDidLookup(gomock.Any(), "did:metablox:bob").Return(types.ZeroAccount, nil),
	)

	require.NoError(t, app.Run([]string{"did-registry", "did", "lookup", did}))
	assert.Equal(t, alice.String()+"\n", buf.String())

	buf.Reset()
	require.NoError(t, app.Run([]string{"did-registry", "did", "lookup", "did:metablox:bob"}))
	assert.Contains(t, buf.String(), "not registered")
}

func TestDIDLookupArgs(t *testing.T) {
	app, _, _ := newMockAppWithRegistryAPI(t, DIDCmd)

	err := app.Run([]string{"did-registry", "did", "lookup"})
	require.Error(t, err)
	var phe *PrintHelpErr
	require.ErrorAs(t, err, &phe)
}

func TestDIDAttrs(t *testing.T) {
	app, mockApi, buf := newMockAppWithRegistryAPI(t, DIDCmd)

	mockApi.EXPECT().RegistryGetAttribute(gomock.Any(), did).Return([]string{"Issuer", "k=v"}, nil)

	require.NoError(t, app.Run([]string{"did-registry", "did", "attrs", did}))
	assert.Equal(t, "Issuer\nk=v\n", buf.String())
}

func TestDIDDelegates(t *testing.T) {
	app, mockApi, buf := newMockAppWithRegistryAPI(t, DIDCmd)

	mockApi.EXPECT().RegistryHead(gomock.Any()).Return(&api.RegistryHead{Epoch: 100}, nil)
	mockApi.EXPECT().RegistryDelegates(gomock.Any(), did).Return([]didregistry.DelegateInfo{
		{Delegate: alice, ExpiresAt: 50},
		{Delegate: bob, ExpiresAt: 160},
	}, nil)

	require.NoError(t, app.Run([]string{"did-registry", "did", "delegates", did}))
	out := buf.String()
	assert.Contains(t, out, alice.String()+"\t50 (50 seconds ago)")
	assert.Contains(t, out, bob.String()+"\t160 (in 1 minute)")
}

func TestDIDDerive(t *testing.T) {
	app, _, buf := newMockAppWithRegistryAPI(t, DIDCmd)

	require.NoError(t, app.Run([]string{"did-registry", "did", "derive", alice.String()}))
	assert.Equal(t, didregistry.DeriveDID(alice)+"\n", buf.String())
}

func TestStateNonce(t *testing.T) {
	app, mockApi, buf := newMockAppWithRegistryAPI(t, StateCmd)

	mockApi.EXPECT().RegistryNonce(gomock.Any(), alice).Return(uint64(7), nil)

	require.NoError(t, app.Run([]string{"did-registry", "state", "nonce", alice.String()}))
	assert.Equal(t, "7\n", buf.String())
}

func TestStateHead(t *testing.T) {
	app, mockApi, buf := newMockAppWithRegistryAPI(t, StateCmd)

	mockApi.EXPECT().RegistryHead(gomock.Any()).Return(&api.RegistryHead{
		Epoch:    12,
		Height:   3,
		Owner:    alice,
		OwnerDID: didregistry.DeriveDID(alice),
	}, nil)

	require.NoError(t, app.Run([]string{"did-registry", "state", "head"}))
	assert.Contains(t, buf.String(), "height: 3")
	assert.Contains(t, buf.String(), didregistry.DeriveDID(alice))
}

func TestVersion(t *testing.T) {
	app, mockApi, buf := newMockAppWithRegistryAPI(t, VersionCmd)
	app.Version = build.UserVersion()

	mockApi.EXPECT().Version(gomock.Any()).Return(api.APIVersion{
		Version:    "0.3.0",
		APIVersion: build.RegistryAPIVersion,
	}, nil)

	require.NoError(t, app.Run([]string{"did-registry", "version"}))
	out := buf.String()
	assert.Contains(t, out, "Daemon:  0.3.0+api"+build.RegistryAPIVersion.String())
	assert.Contains(t, out, "did-registry version "+build.UserVersion())
}

func TestGetAPIEndpoint(t *testing.T) {
	var got string
	app := ucli.NewApp()
	app.Flags = []ucli.Flag{RepoFlag}
	app.Action = func(cctx *ucli.Context) error {
		var err error
		got, err = GetAPIEndpoint(cctx)
		return err
	}

	t.Setenv(APIInfoEnv, "127.0.0.1:1235")
	require.NoError(t, app.Run([]string{"did-registry"}))
	assert.Equal(t, "http://127.0.0.1:1235/rpc/v0", got)

	t.Setenv(APIInfoEnv, "http://registry.local:80/rpc/v0")
	require.NoError(t, app.Run([]string{"did-registry"}))
	assert.Equal(t, "http://registry.local:80/rpc/v0", got)

	t.Setenv(APIInfoEnv, "")
	err := app.Run([]string{"did-registry", "--repo", t.TempDir()})
	require.Error(t, err)
}
