// Package telegram serves song lookups over a Telegram bot. [Bot] turns
// updates into replies and [Poll] feeds it from long polling.
package telegram
