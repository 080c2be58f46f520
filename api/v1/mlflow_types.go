/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// MLflowSpec defines the desired state of MLflow.
//
// The spec only carries the static configuration of the tracking server:
// image, listen port and local storage. Everything connection-related
// (artifact store, metadata database, ingress) is advertised dynamically
// through connection Secrets in the target namespace, labeled with
// "mlflow.r-f-g.dev/connection". The operator merges those connections into
// the runtime configuration and redeploys the server only when the merged
// configuration actually changes.
type MLflowSpec struct {
	// Image specifies the MLflow container image.
	// If not specified, use the default image
	// via the MLFLOW_IMAGE environment variable in the operator.
	// +optional
	Image *ImageConfig `json:"image,omitempty"`

	// Port is the port the MLflow server listens on.
	// +kubebuilder:default=5000
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	// +optional
	Port *int32 `json:"port,omitempty"`

	// Storage specifies the persistent storage configuration using standard PVC spec.
	// The volume backs the embedded sqlite metadata store and the local artifact
	// root, so it is only used while no database or object-storage connection is
	// bound. When omitted, a volume with default sizing is still provisioned as
	// long as one of the local backends is active.
	// Example:
	//   storage:
	//     accessModes: ["ReadWriteOnce"]
	//     resources:
	//       requests:
	//         storage: 10Gi
	//     storageClassName: fast-ssd
	// +optional
	Storage *corev1.PersistentVolumeClaimSpec `json:"storage,omitempty"`

	// ServiceAccountName is the name of the ServiceAccount to use for the MLflow pod.
	// If not specified, a default ServiceAccount will be "mlflow-sa"
	// +kubebuilder:default="mlflow-sa"
	// +optional
	ServiceAccountName *string `json:"serviceAccountName,omitempty"`

	// DBUpgrade requests a one-off `mlflow db upgrade` run against the bound
	// database. The request is refused unless IReallyMeanIt is set, and refused
	// entirely while the metadata store is the embedded file backend. Progress
	// is reported through the DBUpgradeComplete condition.
	// +optional
	DBUpgrade *DBUpgradeSpec `json:"dbUpgrade,omitempty"`
}

// ImageConfig contains container image configuration
type ImageConfig struct {
	// Image is the container image (includes tag)
	// +optional
	Image *string `json:"image,omitempty"`

	// ImagePullPolicy is the image pull policy.
	// If not specified, uses Kubernetes defaults (IfNotPresent for most images, Always for :latest tag).
	// +kubebuilder:validation:Enum=Always;IfNotPresent;Never
	// +optional
	ImagePullPolicy *corev1.PullPolicy `json:"imagePullPolicy,omitempty"`
}

// DBUpgradeSpec asks the operator to run the MLflow schema migration job.
type DBUpgradeSpec struct {
	// IReallyMeanIt must be set for the upgrade job to be created. Schema
	// migrations can be destructive, so an explicit acknowledgement is
	// required.
	// +kubebuilder:default=false
	// +optional
	IReallyMeanIt bool `json:"iReallyMeanIt,omitempty"`
}

// MLflowPhase is the operator's four-valued reconciliation status.
// +kubebuilder:validation:Enum=Waiting;Blocked;Active;Error
type MLflowPhase string

const (
	// PhaseWaiting means reconciliation succeeded but the workload is not yet
	// confirmed healthy, or a bound connection is still settling its data.
	PhaseWaiting MLflowPhase = "Waiting"
	// PhaseBlocked means operator action is required: either two connections of
	// the same kind are bound, or a bound connection is missing required data.
	PhaseBlocked MLflowPhase = "Blocked"
	// PhaseActive means the workload runs the currently resolved configuration.
	PhaseActive MLflowPhase = "Active"
	// PhaseError means the last apply of the resolved configuration failed; it
	// is retried on the next triggering event.
	PhaseError MLflowPhase = "Error"
)

// BoundConnection records one connection Secret currently merged into the
// server configuration.
type BoundConnection struct {
	// Kind is the connection kind: object-storage, database or ingress.
	Kind string `json:"kind"`
	// Name is the name of the connection Secret.
	Name string `json:"name"`
}

// MLflowStatus defines the observed state of MLflow.
type MLflowStatus struct {
	// phase is the coarse reconciliation status of the tracking server.
	// +optional
	Phase MLflowPhase `json:"phase,omitempty"`

	// message is a human-readable elaboration of phase. For Blocked it names
	// the offending connection and the duplicate or missing field; for Error it
	// carries the last apply error verbatim.
	// +optional
	Message string `json:"message,omitempty"`

	// appliedSpecHash identifies the workload configuration last applied
	// successfully. Two status reads with the same hash observed the same
	// deployed configuration.
	// +optional
	AppliedSpecHash string `json:"appliedSpecHash,omitempty"`

	// boundConnections lists the connection Secrets merged into the applied
	// configuration.
	// +listType=map
	// +listMapKey=kind
	// +optional
	BoundConnections []BoundConnection `json:"boundConnections,omitempty"`

	// conditions represent the current state of the MLflow resource.
	// Each condition has a unique type and reflects the status of a specific aspect of the resource.
	//
	// Standard condition types include:
	// - "Available": the resource is fully functional
	// - "Progressing": the resource is being created or updated
	// - "Degraded": the resource failed to reach or maintain its desired state
	//
	// The status of each condition is one of True, False, or Unknown.
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Cluster
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Message",type=string,JSONPath=`.status.message`
// +kubebuilder:validation:XValidation:rule="self.metadata.name == 'mlflow'",message="MLflow resource name must be 'mlflow'"

// MLflow is the Schema for the mlflows API
type MLflow struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitzero"`

	// spec defines the desired state of MLflow
	// +required
	Spec MLflowSpec `json:"spec"`

	// status defines the observed state of MLflow
	// +optional
	Status MLflowStatus `json:"status,omitzero"`
}

// +kubebuilder:object:root=true

// MLflowList contains a list of MLflow
type MLflowList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitzero"`
	Items           []MLflow `json:"items"`
}

func init() {
	SchemeBuilder.Register(&MLflow{}, &MLflowList{})
}
