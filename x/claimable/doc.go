/*
Package claimable implements a single use claimable balance.

A depositor locks an amount of a single asset, naming up to ten claimants
and a time bound. Any of the claimants may withdraw the whole amount once
the time bound holds for the block time. After a withdrawal the balance is
consumed and the instance can never be funded again.

Every instance is identified by a name. An instance moves through three
states:

	Uninitialized -> Funded -> Claimed

The funds are held by an address derived from the instance name, see
HoldingAddress.
*/
package claimable
