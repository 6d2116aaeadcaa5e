/*
Package ports defines the driven ports (interfaces) of the parley engine.

These interfaces decouple the conversation core from its collaborators, allowing
the engine to work with any dialogue source, UI toolkit or input device.

# Key Interfaces

  - DialogueStore: hands the engine NodeData for first/specific/next nodes.
  - TreeLoader: loads authored trees (memory, YAML files, Loam repositories).
  - AssignmentRecord / AssignmentStore: per-character metadata and its persistence.
  - WorldState: persistent game flags consulted by actions and routing.
  - Surface / InputSource: the UI boundary used by the presenter.
*/
package ports
