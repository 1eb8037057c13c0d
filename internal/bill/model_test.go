package bill_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/solsplit/internal/bill"
)

func TestNewPending(t *testing.T) {
	now := time.Unix(1000, 0).UTC()

	tests := []struct {
		name    string
		input   bill.CreateInput
		want    bill.Pending
		wantErr error
	}{
		{
			name:  "valid bill",
			input: bill.CreateInput{Name: "Dinner", Amount: "2.5", ParticipantName: "Alice"},
			want: bill.Pending{
				Name:            "Dinner",
				Lamports:        2_500_000_000,
				ParticipantName: "Alice",
				CreatedAt:       now,
			},
		},
		{
			name:  "trims whitespace",
			input: bill.CreateInput{Name: "  Lunch  ", Amount: "1", ParticipantName: " Bob "},
			want: bill.Pending{
				Name:            "Lunch",
				Lamports:        1_000_000_000,
				ParticipantName: "Bob",
				CreatedAt:       now,
			},
		},
		{
			name:    "missing name",
			input:   bill.CreateInput{Name: "   ", Amount: "1", ParticipantName: "Alice"},
			wantErr: bill.ErrMissingName,
		},
		{
			name:    "missing participant",
			input:   bill.CreateInput{Name: "Dinner", Amount: "1", ParticipantName: ""},
			wantErr: bill.ErrMissingParticipantName,
		},
		{
			name:    "zero amount",
			input:   bill.CreateInput{Name: "Dinner", Amount: "0", ParticipantName: "Alice"},
			wantErr: bill.ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			input:   bill.CreateInput{Name: "Dinner", Amount: "-2", ParticipantName: "Alice"},
			wantErr: bill.ErrInvalidAmount,
		},
		{
			name:    "non-numeric amount",
			input:   bill.CreateInput{Name: "Dinner", Amount: "lots", ParticipantName: "Alice"},
			wantErr: bill.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bill.NewPending(tt.input, now)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPendingMatches(t *testing.T) {
	at := time.Unix(1000, 0).UTC()
	p := bill.Pending{Name: "Dinner", Lamports: 1, CreatedAt: at}

	assert.True(t, p.Matches(bill.ID{Name: "Dinner", CreatedAt: at}))

	// Same name, different creation time is a different bill.
	assert.False(t, p.Matches(bill.ID{Name: "Dinner", CreatedAt: at.Add(time.Second)}))
	assert.False(t, p.Matches(bill.ID{Name: "Dinner2", CreatedAt: at}))

	// Equal instants compare equal across locations.
	assert.True(t, p.Matches(bill.ID{Name: "Dinner", CreatedAt: at.Local()}))
}

func TestRemoteKindOf(t *testing.T) {
	insufficient := bill.NewRemoteError(bill.KindInsufficientFunds, "need 2 SOL", nil)
	assert.Equal(t, bill.KindInsufficientFunds, bill.RemoteKindOf(insufficient))

	wrapped := errors.Join(errors.New("pay failed"), insufficient)
	assert.Equal(t, bill.KindInsufficientFunds, bill.RemoteKindOf(wrapped))

	assert.Equal(t, bill.KindUnknown, bill.RemoteKindOf(errors.New("boom")))
	assert.False(t, bill.IsRemote(errors.New("boom")))
	assert.True(t, bill.IsRemote(insufficient))
}
