package lox_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/lox"
)

func TestMap(t *testing.T) {
	rq := require.New(t)

	rq.Equal([]string{"1", "2"}, lox.Map([]int{1, 2}, strconv.Itoa))

	empty := lox.Map[int, string](nil, strconv.Itoa)
	rq.NotNil(empty)
	rq.Empty(empty)
}

func TestMapErr(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		in      []string
		want    []int
		wantErr bool
	}{
		{in: []string{"1", "2"}, want: []int{1, 2}},
		{in: []string{"1", "x"}, wantErr: true},
		{in: nil, want: []int{}},
	}

	for _, tc := range testCases {
		got, err := lox.MapErr(tc.in, strconv.Atoi)
		if tc.wantErr {
			rq.Error(err)
			rq.Nil(got)

			continue
		}

		rq.NoError(err)
		rq.Equal(tc.want, got)
	}

	boom := errors.New("boom")
	_, err := lox.MapErr([]int{1}, func(int) (int, error) { return 0, boom })
	rq.ErrorIs(err, boom)
}
