package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/muesli/termenv"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/bone"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/casefile"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/config"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/plan"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/session"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	planSave  bool
	planName  string
	planJSON  bool
	planClip  bool
	femurPath string
	tibiaPath string
)

var planCmd = &cobra.Command{
	Use:   "plan [case.yaml]",
	Short: "Run the full planning pipeline for a case file",
	Long: `Load the bones of a case, place its landmarks, create the axes and the plane
chain, and print the resection depths. With --save the result is recorded in
the plan history.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	flags := planCmd.Flags()
	flags.BoolVar(&planSave, "save", false, "record the plan in the history database")
	flags.StringVar(&planName, "name", "", "name to save the plan under (default: the case name)")
	flags.BoolVar(&planJSON, "json", false, "print the snapshot as JSON instead of a report")
	flags.BoolVar(&planClip, "clip", false, "clip the bones by the resection plane")
	addBoneFlags(flags)
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	c, err := casefile.Load(args[0])
	if err != nil {
		return err
	}
	if !c.Complete() {
		return fmt.Errorf("%w: %s does not place every required landmark", casefile.ErrInvalid, args[0])
	}

	bones, err := caseBones(c)
	if err != nil {
		return err
	}

	s, err := session.Open(ctx, session.Options{
		Bones: bones,
		Engine: plan.Options{
			Parameters:       c.PlanParameters(planningDefaults(cfg)),
			ResectionVisible: c.ResectionVisible || planClip,
		},
		FrameInterval: cfg.FrameInterval(),
		Logger:        slog.Default(),
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.Run(runCtx)

	cmds := append(c.PlaceCommands(), plan.CreateAxes{}, plan.CreatePlanes{})
	var snap plan.Snapshot
	for _, command := range cmds {
		if snap, err = s.Do(ctx, command); err != nil {
			return err
		}
	}

	var clips []boneClip
	err = s.Inspect(ctx, func(_ *plan.Engine, meshes []*bone.Mesh) {
		for _, m := range meshes {
			if stats, ok := m.ClipStats(); ok {
				clips = append(clips, boneClip{Name: m.Name(), Stats: stats})
			}
		}
	})
	if err != nil {
		return err
	}

	name := planName
	if name == "" {
		name = c.Name
	}
	if name == "" {
		name = args[0]
	}

	if planJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return err
		}
	} else {
		out := termenv.NewOutput(cmd.OutOrStdout())
		writeReport(cmd.OutOrStdout(), out, name, snap, clips)
	}

	if planSave {
		st, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		saved, err := st.Save(ctx, name, snap)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved plan %s\n", saved.ID)
	}
	return nil
}

// addBoneFlags registers the fallback mesh paths for cases without bones
func addBoneFlags(flags *pflag.FlagSet) {
	flags.StringVar(&femurPath, "femur", "", "femur STL used when the case lists no bones")
	flags.StringVar(&tibiaPath, "tibia", "", "tibia STL used when the case lists no bones")
}

// caseBones returns the bones of c, or the default femur and tibia from the flags
func caseBones(c *casefile.Case) ([]bone.Config, error) {
	if c != nil && len(c.Bones) > 0 {
		return c.Bones, nil
	}
	if femurPath == "" || tibiaPath == "" {
		return nil, errors.New("no bones configured: pass --femur and --tibia or list bones in the case")
	}
	return bone.Defaults(femurPath, tibiaPath), nil
}

func planningDefaults(c *config.Config) plan.Parameters {
	return plan.Parameters{
		VarusValgus:      c.Planning.VarusValgus,
		FlexionExtension: c.Planning.FlexionExtension,
		ResectionDepth:   c.Planning.ResectionDepth,
	}
}
