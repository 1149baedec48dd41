// Package wizards assembles the contacts wizards on one engine.
package wizards

import (
	"fmt"

	"github.com/go-chi/chi/v5"

	"contacts/internal/contactsapi"
	"contacts/internal/form"
	"contacts/internal/journey"
	"contacts/internal/navigation"
	"contacts/internal/wizard"
	"contacts/internal/wizards/addcontact"
	"contacts/internal/wizards/address"
	"contacts/internal/wizards/employments"
	"contacts/internal/wizards/relationship"
	"contacts/internal/wizards/restriction"
)

type module struct {
	flow *navigation.Flow
	bind func(*navigation.Flow, contactsapi.Client) (*wizard.Wizard, error)
}

func modules() []module {
	return []module{
		{addcontact.NewFlow(), addcontact.New},
		{address.NewFlow(), address.New},
		{restriction.NewFlow(), restriction.New},
		{relationship.NewFlow(), relationship.New},
		{employments.NewFlow(), employments.New},
	}
}

// Mount builds every wizard and registers its routes on r.
func Mount(r chi.Router, client contactsapi.Client, store *journey.Store, flasher *form.Flasher, opts ...wizard.Option) (*wizard.Engine, error) {
	mods := modules()
	flows := make([]*navigation.Flow, len(mods))
	for i, m := range mods {
		flows[i] = m.flow
	}
	resolver, err := navigation.NewResolver(flows...)
	if err != nil {
		return nil, fmt.Errorf("building flows: %w", err)
	}

	wizards := make([]*wizard.Wizard, 0, len(mods))
	for _, m := range mods {
		wz, err := m.bind(m.flow, client)
		if err != nil {
			return nil, err
		}
		wizards = append(wizards, wz)
	}

	engine := wizard.New(store, resolver, flasher, opts...)
	engine.Register(r, wizards...)
	return engine, nil
}
