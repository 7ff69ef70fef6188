package programs

import (
	"context"
	"testing"

	"lenderlink-backend/internal/database"
	"lenderlink-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func f(v float64) *float64 { return &v }

func setupProgramsTest(t *testing.T) (*Service, *models.Lender, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	lender := &models.Lender{LenderID: uuid.New(), Name: "Kiavi", Active: true}
	require.NoError(t, db.Create(lender).Error)

	return &Service{DB: db}, lender, db
}

func TestCreateProgram(t *testing.T) {
	svc, lender, _ := setupProgramsTest(t)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, CreateProgramInput{
		LenderID: lender.LenderID, Name: "Kiavi Rental Loan", ProductType: models.ProductDSCR,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, program.ProgramVersion)
	assert.True(t, program.Active)

	_, err = svc.CreateProgram(ctx, CreateProgramInput{
		LenderID: lender.LenderID, Name: "Mystery", ProductType: "Payday",
	})
	require.Error(t, err)

	_, err = svc.CreateProgram(ctx, CreateProgramInput{
		LenderID: uuid.New(), Name: "Orphan", ProductType: models.ProductDSCR,
	})
	require.Error(t, err)
	assert.Equal(t, "Lender not found", err.Error())
}

func TestAddCriterion_Validation(t *testing.T) {
	svc, lender, _ := setupProgramsTest(t)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, CreateProgramInput{
		LenderID: lender.LenderID, Name: "Kiavi Rental Loan", ProductType: models.ProductDSCR,
	})
	require.NoError(t, err)

	valid := AddCriterionInput{
		ProgramID: program.ProgramID, ProgramVersion: 1,
		Name: "min_fico", DataType: models.CriterionInteger,
		HardMin: f(660), SoftMin: f(700), Required: true,
	}
	criterion, err := svc.AddCriterion(ctx, valid)
	require.NoError(t, err)
	assert.True(t, criterion.Active)

	cases := []struct {
		name string
		in   AddCriterionInput
	}{
		{"hard_min above hard_max", AddCriterionInput{
			ProgramID: program.ProgramID, ProgramVersion: 1, Name: "max_ltv",
			DataType: models.CriterionDecimal, HardMin: f(80), HardMax: f(70),
		}},
		{"soft_min below hard_min", AddCriterionInput{
			ProgramID: program.ProgramID, ProgramVersion: 1, Name: "min_dscr",
			DataType: models.CriterionDecimal, HardMin: f(1.0), SoftMin: f(0.9),
		}},
		{"soft_max above hard_max", AddCriterionInput{
			ProgramID: program.ProgramID, ProgramVersion: 1, Name: "max_ltv",
			DataType: models.CriterionDecimal, HardMax: f(80), SoftMax: f(85),
		}},
		{"enum without values", AddCriterionInput{
			ProgramID: program.ProgramID, ProgramVersion: 1, Name: "property_types",
			DataType: models.CriterionEnum,
		}},
		{"enum with numeric bounds", AddCriterionInput{
			ProgramID: program.ProgramID, ProgramVersion: 1, Name: "property_types",
			DataType: models.CriterionEnum, EnumValues: []string{"SFR"}, HardMin: f(1),
		}},
		{"bool with bounds", AddCriterionInput{
			ProgramID: program.ProgramID, ProgramVersion: 1, Name: "allows_foreign_national",
			DataType: models.CriterionBool, HardMin: f(0),
		}},
		{"unknown type", AddCriterionInput{
			ProgramID: program.ProgramID, ProgramVersion: 1, Name: "oddball",
			DataType: "timestamp",
		}},
	}
	for _, tc := range cases {
		_, err := svc.AddCriterion(ctx, tc.in)
		assert.Error(t, err, tc.name)
	}

	_, err = svc.AddCriterion(ctx, AddCriterionInput{
		ProgramID: uuid.New(), ProgramVersion: 1, Name: "min_fico",
		DataType: models.CriterionInteger, HardMin: f(660),
	})
	require.Error(t, err)
	assert.Equal(t, "Program not found", err.Error())
}

func TestReviseProgram_ClonesLatestVersion(t *testing.T) {
	svc, lender, db := setupProgramsTest(t)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, CreateProgramInput{
		LenderID: lender.LenderID, Name: "Kiavi Rental Loan", ProductType: models.ProductDSCR,
	})
	require.NoError(t, err)

	_, err = svc.AddCriterion(ctx, AddCriterionInput{
		ProgramID: program.ProgramID, ProgramVersion: 1,
		Name: "min_fico", DataType: models.CriterionInteger, HardMin: f(660), Required: true,
	})
	require.NoError(t, err)
	_, err = svc.AddPricingRow(ctx, AddPricingRowInput{
		ProgramID: program.ProgramID, ProgramVersion: 1,
		LTVBand: "65-70", DSCRBand: "1.25+", RateSpread: 0.5,
	})
	require.NoError(t, err)

	revised, err := svc.ReviseProgram(ctx, program.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, 2, revised.ProgramVersion)
	assert.True(t, revised.Active)

	// The old version stays but no longer matches.
	var v1 models.Program
	require.NoError(t, db.Where("program_id = ? AND program_version = ?", program.ProgramID, 1).First(&v1).Error)
	assert.False(t, v1.Active)

	// Criteria and pricing carried over to the new version.
	var critCount, rowCount int64
	require.NoError(t, db.Model(&models.ProgramCriterion{}).
		Where("program_id = ? AND program_version = ?", program.ProgramID, 2).Count(&critCount).Error)
	require.NoError(t, db.Model(&models.PricingMatrixRow{}).
		Where("program_id = ? AND program_version = ?", program.ProgramID, 2).Count(&rowCount).Error)
	assert.EqualValues(t, 1, critCount)
	assert.EqualValues(t, 1, rowCount)

	// Version 1 rows are untouched.
	var v1CritCount int64
	require.NoError(t, db.Model(&models.ProgramCriterion{}).
		Where("program_id = ? AND program_version = ?", program.ProgramID, 1).Count(&v1CritCount).Error)
	assert.EqualValues(t, 1, v1CritCount)
}

func TestAddPricingRow_RejectsMalformedBands(t *testing.T) {
	svc, lender, _ := setupProgramsTest(t)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, CreateProgramInput{
		LenderID: lender.LenderID, Name: "Kiavi Rental Loan", ProductType: models.ProductDSCR,
	})
	require.NoError(t, err)

	_, err = svc.AddPricingRow(ctx, AddPricingRowInput{
		ProgramID: program.ProgramID, ProgramVersion: 1,
		LTVBand: "seventy-ish", DSCRBand: "1.25-1.35", RateSpread: 0.5,
	})
	require.Error(t, err)

	_, err = svc.AddPricingRow(ctx, AddPricingRowInput{
		ProgramID: program.ProgramID, ProgramVersion: 1,
		LTVBand: "65-70", DSCRBand: "", RateSpread: 0.5,
	})
	require.Error(t, err)
}

func TestSetMetroOverrides(t *testing.T) {
	svc, lender, db := setupProgramsTest(t)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, CreateProgramInput{
		LenderID: lender.LenderID, Name: "Kiavi Rental Loan", ProductType: models.ProductDSCR,
	})
	require.NoError(t, err)

	rows, err := svc.SetMetroOverrides(ctx, program.ProgramID, 1, []string{"Dallas-Fort Worth", "Houston", "Houston"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.SetMetroOverrides(ctx, program.ProgramID, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
	var count int64
	require.NoError(t, db.Model(&models.ProgramMetro{}).Where("program_id = ?", program.ProgramID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeactivateProgram(t *testing.T) {
	svc, lender, db := setupProgramsTest(t)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, CreateProgramInput{
		LenderID: lender.LenderID, Name: "Kiavi Rental Loan", ProductType: models.ProductDSCR,
	})
	require.NoError(t, err)
	_, err = svc.ReviseProgram(ctx, program.ProgramID)
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateProgram(ctx, program.ProgramID))

	var count int64
	require.NoError(t, db.Model(&models.Program{}).
		Where("program_id = ? AND active = ?", program.ProgramID, true).Count(&count).Error)
	assert.Zero(t, count)

	assert.Error(t, svc.DeactivateProgram(ctx, uuid.New()))
}
