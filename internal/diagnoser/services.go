package diagnoser

import (
	"github.com/bayleafwalker/bindery-troubleshoot/internal/graph"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

type blockedBy struct {
	key       ServiceKey
	dependent string
}

// DiagnoseServices groups the components blocked by unsatisfied service
// references by missing service and ranks the groups by blast radius.
func DiagnoseServices(components []inventory.Component) []MissingService {
	out, _ := diagnoseServices(components)
	return out
}

func diagnoseServices(components []inventory.Component) ([]MissingService, []*UnitError) {
	idx := graph.BuildComponentIndex(components)

	var blocked []blockedBy
	var errs []*UnitError
	for _, c := range components {
		var found []blockedBy
		if uerr := isolate(c.Name(), func() { found = blockedReferences(c, idx) }); uerr != nil {
			errs = append(errs, uerr)
			continue
		}
		blocked = append(blocked, found...)
	}

	groups := graph.GroupBy(blocked, func(b blockedBy) ServiceKey { return b.key })
	missing := make([]MissingService, 0, groups.Len())
	for _, key := range groups.Keys {
		ms := MissingService{Service: key.Service, Reason: key.Reason}
		for _, b := range groups.Get(key) {
			ms.Dependents = append(ms.Dependents, b.dependent)
		}
		missing = append(missing, ms)
	}
	return Rank(missing), errs
}

// blockedReferences inspects the first configuration of c only; further
// instances of the same descriptor share its unsatisfied references.
func blockedReferences(c inventory.Component, idx graph.ComponentIndex) []blockedBy {
	if len(c.Configurations) == 0 {
		return nil
	}
	config := c.Configurations[0]

	var out []blockedBy
	recorded := map[ServiceKey]struct{}{}
	for _, ref := range c.Descriptor.References {
		if ref.Optional || config.Satisfied(ref.Name) {
			continue
		}
		if idx.ProvidersByService.Get(ref.Interface) != nil {
			continue
		}
		key := ServiceKey{Service: ref.Interface, Reason: missingReason(ref.Interface, idx)}
		if _, dup := recorded[key]; dup {
			continue
		}
		recorded[key] = struct{}{}
		out = append(out, blockedBy{key: key, dependent: c.Name()})
	}
	return out
}

func missingReason(service string, idx graph.ComponentIndex) ServiceReason {
	definitions := idx.DescriptorsByName.Get(service)
	if len(definitions) == 0 {
		return NoDefinitionFound
	}
	if definitions[0].ConfigurationPolicy == inventory.PolicyRequire {
		return MissingRequiredConfiguration
	}
	return NoActiveInstance
}
