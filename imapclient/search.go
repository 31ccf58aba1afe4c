package imapclient

import (
	"fmt"
	"slices"

	"github.com/directorytree/go-imapengine"
)

// Search sends a SEARCH command.
//
// The criteria is a finished search string, e.g. "UNSEEN SINCE 1-Feb-2024".
// Matching sequence numbers are returned in ascending order.
func (c *Client) Search(criteria string) ([]uint32, error) {
	return c.search("SEARCH", criteria)
}

// UIDSearch sends a UID SEARCH command.
func (c *Client) UIDSearch(criteria string) ([]imap.UID, error) {
	nums, err := c.search("UID SEARCH", criteria)
	if err != nil {
		return nil, err
	}
	uids := make([]imap.UID, len(nums))
	for i, num := range nums {
		uids[i] = imap.UID(num)
	}
	return uids, nil
}

func (c *Client) search(verb, criteria string) ([]uint32, error) {
	if criteria == "" {
		criteria = "ALL"
	}
	res, err := c.Execute(verb, imap.RawArg(criteria))
	if err != nil {
		return nil, err
	}

	var nums []uint32
	for _, resp := range res.UntaggedOfType("SEARCH") {
		for _, d := range resp.Data() {
			num, err := imap.ParseNumber(d)
			if err != nil {
				return nil, fmt.Errorf("imapclient: in SEARCH: %w", err)
			}
			nums = append(nums, num)
		}
	}
	slices.Sort(nums)
	return slices.Compact(nums), nil
}
