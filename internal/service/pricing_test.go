package service

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/studynest/cabin-booking/internal/model"
)

func TestQuote(t *testing.T) {
    total, shares := Quote(model.ModeDaily, 1, false)
    assert.EqualValues(t, 15, total)
    assert.Equal(t, []uint32{15}, shares)

    total, shares = Quote(model.ModeDaily, 2, true)
    assert.EqualValues(t, 130, total)
    assert.Equal(t, []uint32{115, 15}, shares, "locker charge lands on the first row")

    total, shares = Quote(model.ModeMonthly, 3, false)
    assert.EqualValues(t, 900, total)
    assert.Equal(t, []uint32{300, 300, 300}, shares)

    total, shares = Quote(model.ModeMonthly, 4, true)
    assert.EqualValues(t, 1300, total)
    sum := uint32(0)
    for _, s := range shares {
        sum += s
    }
    assert.Equal(t, total, sum, "shares always sum exactly to the total")
}

func TestSlotTypeFor(t *testing.T) {
    assert.Equal(t, model.SlotFourHours, SlotTypeFor(model.ModeDaily, 1))
    assert.Equal(t, model.SlotEightHours, SlotTypeFor(model.ModeDaily, 2))
    assert.Equal(t, model.SlotFullDay, SlotTypeFor(model.ModeDaily, 3))
    assert.Equal(t, model.SlotFullDay, SlotTypeFor(model.ModeDaily, 4))
    assert.Equal(t, model.SlotMonthly, SlotTypeFor(model.ModeMonthly, 1))
    assert.Equal(t, model.SlotMonthly, SlotTypeFor(model.ModeMonthly, 4))
}
