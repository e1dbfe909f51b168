package bot

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"autoparts_backend/internal/catalog"
	"autoparts_backend/internal/partsapi"
	"autoparts_backend/platform/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test")
}

type fakeCompleter struct {
	response string
	err      error
	calls    int
}

func (f *fakeCompleter) Complete(_ context.Context, _, _ string, _ float64, _ int) (string, error) {
	f.calls++
	return f.response, f.err
}

type fakeTranslator struct {
	language       string
	translated     string
	detectErr      error
	translateErr   error
	translateCalls int
}

func (f *fakeTranslator) DetectLanguage(_ context.Context, _ string) (string, error) {
	return f.language, f.detectErr
}

func (f *fakeTranslator) Translate(_ context.Context, text, _ string) (string, error) {
	f.translateCalls++
	if f.translateErr != nil {
		return "", f.translateErr
	}
	return f.translated, nil
}

type fakeCatalog struct {
	partsByNumber  []catalog.Part
	vehicle        *catalog.Vehicle
	partsByVehicle []catalog.Part
	vehicles       []catalog.Vehicle
	partsByName    []catalog.Part

	err   error
	panic bool

	lastTokens     []string
	lastVehicleIDs []int64
	lastAnyVehicle bool
	numberCalls    int
	nameCalls      int
}

func (f *fakeCatalog) PartsByPartNumber(_ context.Context, _ string, _ int) ([]catalog.Part, error) {
	if f.panic {
		panic("catalog store down")
	}
	f.numberCalls++
	return f.partsByNumber, f.err
}

func (f *fakeCatalog) VehicleByChassis(_ context.Context, _ string) (*catalog.Vehicle, error) {
	return f.vehicle, f.err
}

func (f *fakeCatalog) PartsByVehicle(_ context.Context, _ int64, _ int) ([]catalog.Part, error) {
	return f.partsByVehicle, f.err
}

func (f *fakeCatalog) VehiclesByMakeOrModel(_ context.Context, tokens []string) ([]catalog.Vehicle, error) {
	f.lastTokens = tokens
	return f.vehicles, f.err
}

func (f *fakeCatalog) PartsByNameAndVehicles(_ context.Context, _ string, vehicleIDs []int64, anyVehicle bool, _ int) ([]catalog.Part, error) {
	f.nameCalls++
	f.lastVehicleIDs = vehicleIDs
	f.lastAnyVehicle = anyVehicle
	return f.partsByName, f.err
}

type fakeProvider struct {
	parts      []partsapi.Part
	vehicle    *partsapi.Vehicle
	partsErr   error
	vehicleErr error
	partCalls  int
}

func (f *fakeProvider) FindPartsByPartNumber(_ context.Context, _ string) ([]partsapi.Part, error) {
	f.partCalls++
	return f.parts, f.partsErr
}

func (f *fakeProvider) LookupVehicleByChassis(_ context.Context, _ string) (*partsapi.Vehicle, error) {
	return f.vehicle, f.vehicleErr
}

type fakeLeadStore struct {
	leadID         uuid.UUID
	createErr      error
	created        int
	respondedIDs   []uuid.UUID
	lastIntent     string
	lastLocale     string
	lastAgent      string
	lastQueryText  string
	lastUserID     string
	respondedCalls int
}

func (f *fakeLeadStore) CreateLead(_ context.Context, userID, queryText, intent, locale, assignedAgent string) (uuid.UUID, error) {
	f.created++
	f.lastUserID = userID
	f.lastQueryText = queryText
	f.lastIntent = intent
	f.lastLocale = locale
	f.lastAgent = assignedAgent
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	return f.leadID, nil
}

func (f *fakeLeadStore) MarkResponded(_ context.Context, id uuid.UUID) error {
	f.respondedCalls++
	f.respondedIDs = append(f.respondedIDs, id)
	return nil
}

type fakeMessenger struct {
	sent    []string
	lastTo  string
	sendErr error
}

func (f *fakeMessenger) SendText(_ context.Context, waID, text string) error {
	f.lastTo = waID
	f.sent = append(f.sent, text)
	return f.sendErr
}

type fakeAgents struct {
	agent string
}

func (f *fakeAgents) Next() string { return f.agent }

var errStoreDown = errors.New("store down")
